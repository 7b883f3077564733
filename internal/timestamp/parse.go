package timestamp

import (
	"regexp"
	"strconv"
)

// Matcher extracts six numeric fields from normalized, repaired text. It
// reports false when its pattern does not match; calendar validation is left
// to the Parser.
type Matcher interface {
	Name() string
	Match(text string) (Timestamp, bool)
}

// Match is the outcome of a successful parse.
type Match struct {
	Timestamp  Timestamp `json:"timestamp"`
	Strategy   string    `json:"strategy"`
	Normalized string    `json:"normalized"`
	Repaired   string    `json:"repaired"`
}

// Parser runs an ordered cascade of matchers.
type Parser struct {
	matchers []Matcher
}

// NewParser returns a parser that tries matchers in the given order.
func NewParser(matchers ...Matcher) *Parser {
	return &Parser{matchers: matchers}
}

// DefaultParser returns the standard overlay cascade: date anchor with a
// colon-delimited time, flexible hour, loose pairs, the loose flex pattern,
// then the strict patterns.
func DefaultParser() *Parser {
	m := []Matcher{
		dateThenClock{},
		regexMatcher{name: "flexible_hour", re: flexibleHourRe},
		loosePairs{},
		regexMatcher{name: "flex", re: flexRe},
	}
	for i, re := range strictRes {
		m = append(m, regexMatcher{name: strictNames[i], re: re})
	}
	return NewParser(m...)
}

// Strategies lists matcher names in the order they are tried.
func (p *Parser) Strategies() []string {
	names := make([]string, len(p.matchers))
	for i, m := range p.matchers {
		names[i] = m.Name()
	}
	return names
}

// Parse returns the first calendar-valid timestamp found in raw.
func (p *Parser) Parse(raw string) (Timestamp, bool) {
	m, ok := p.Explain(raw)
	return m.Timestamp, ok
}

// Explain is Parse with the intermediate text forms and the matching strategy.
func (p *Parser) Explain(raw string) (Match, bool) {
	res := Match{Normalized: Normalize(raw)}
	res.Repaired = RepairTriplets(res.Normalized)
	if res.Repaired == "" {
		return res, false
	}
	for _, m := range p.matchers {
		ts, ok := m.Match(res.Repaired)
		if ok && ts.Valid() {
			res.Timestamp = ts
			res.Strategy = m.Name()
			return res, true
		}
	}
	return res, false
}

var (
	dateAnchorRe   = regexp.MustCompile(`(20\d{2})\D{0,4}(\d{2})\D{0,4}(\d{2})`)
	clockRe        = regexp.MustCompile(`(\d{1,2})\s*:\s*(\d{2})\s*:\s*(\d{2})`)
	flexibleHourRe = regexp.MustCompile(`(20\d{2})\D{0,5}(\d{2})\D{0,5}(\d{2}).{0,12}?(\d{1,2})\D{0,3}(\d{2})\D{0,3}(\d{2})`)
	yearRe         = regexp.MustCompile(`20\d{2}`)
	pairRe         = regexp.MustCompile(`\d\D?\d`)
	flexRe         = regexp.MustCompile(`(20\d{2})\D{0,4}(\d{2})\D{0,4}(\d{2})\D{0,6}(\d{1,2})\D{0,4}(\d{2})\D{0,4}(\d{2})`)

	strictNames = []string{"strict_iso", "strict_compact", "strict_semi"}
	strictRes   = []*regexp.Regexp{
		// any year, but never the tail of a longer digit run
		regexp.MustCompile(`(?:^|\D)(\d{4})-(\d{2})-(\d{2})[ T](\d{2}):(\d{2}):(\d{2})`),
		regexp.MustCompile(`(20\d{2})(\d{2})(\d{2})[ T]?(\d{2})(\d{2})(\d{2})`),
		regexp.MustCompile(`(20\d{2})-(\d{2})-(\d{2}).{0,3}(\d{2}).{0,3}(\d{2}).{0,3}(\d{2})`),
	}
)

// regexMatcher takes the first match of a six-group pattern.
type regexMatcher struct {
	name string
	re   *regexp.Regexp
}

func (m regexMatcher) Name() string { return m.name }

func (m regexMatcher) Match(text string) (Timestamp, bool) {
	g := m.re.FindStringSubmatch(text)
	if g == nil {
		return Timestamp{}, false
	}
	return fieldsOf(g[1:])
}

// dateThenClock anchors on the first date and looks for an explicit
// H:MM:SS or HH:MM:SS anywhere after it.
type dateThenClock struct{}

func (dateThenClock) Name() string { return "date_then_clock" }

func (dateThenClock) Match(text string) (Timestamp, bool) {
	loc := dateAnchorRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return Timestamp{}, false
	}
	rest := text[loc[1]:]
	c := clockRe.FindStringSubmatch(rest)
	if c == nil {
		return Timestamp{}, false
	}
	return fieldsOf([]string{
		text[loc[2]:loc[3]], text[loc[4]:loc[5]], text[loc[6]:loc[7]],
		c[1], c[2], c[3],
	})
}

// loosePairs anchors on the year and then takes the next five two-digit
// fields, each of which may be split by one stray non-digit.
type loosePairs struct{}

func (loosePairs) Name() string { return "loose_pairs" }

func (loosePairs) Match(text string) (Timestamp, bool) {
	y := yearRe.FindStringIndex(text)
	if y == nil {
		return Timestamp{}, false
	}
	f := [FieldCount]int{}
	f[0], _ = strconv.Atoi(text[y[0]:y[1]])
	idx := y[1]
	for i := 1; i < FieldCount; i++ {
		p := pairRe.FindStringIndex(text[idx:])
		if p == nil {
			return Timestamp{}, false
		}
		pair := text[idx+p[0] : idx+p[1]]
		f[i] = int(pair[0]-'0')*10 + int(pair[len(pair)-1]-'0')
		idx += p[1]
	}
	return FromFields(f), true
}

func fieldsOf(groups []string) (Timestamp, bool) {
	if len(groups) != FieldCount {
		return Timestamp{}, false
	}
	var f [FieldCount]int
	for i, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil {
			return Timestamp{}, false
		}
		f[i] = n
	}
	return FromFields(f), true
}
