package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"runtime"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// EngineConfig configures Tesseract for overlay timestamps.
type EngineConfig struct {
	// Language is the traineddata name, e.g. "eng".
	Language string `json:"language"`
	// TessdataPrefix overrides the tessdata directory; empty uses the system default.
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
	// Whitelist restricts recognized characters.
	Whitelist string `json:"whitelist"`
	// PageSegMode is the Tesseract page segmentation mode; 7 is a single line.
	PageSegMode int `json:"page_seg_mode"`
	// PreserveInterwordSpaces keeps runs of spaces between fields.
	PreserveInterwordSpaces bool `json:"preserve_interword_spaces"`
	// NumericMode enables classify_bln_numeric_mode.
	NumericMode bool `json:"numeric_mode"`
	// PoolSize is the number of Tesseract clients that may run at once;
	// below one means one per CPU.
	PoolSize int `json:"pool_size"`
}

// DefaultEngineConfig returns the single-line numeric configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Language:                "eng",
		Whitelist:               "0123456789:-",
		PageSegMode:             int(gosseract.PSM_SINGLE_LINE),
		PreserveInterwordSpaces: true,
		NumericMode:             true,
	}
}

// Tesseract is a Recognizer backed by a pool of gosseract clients. It is safe
// for concurrent use; at most PoolSize recognitions run at the same time.
type Tesseract struct {
	cfg  EngineConfig
	pool chan *gosseract.Client

	mu     sync.Mutex
	closed bool
	all    []*gosseract.Client
}

// NewTesseract creates the client pool. Tesseract itself is initialized
// lazily on the first recognition.
func NewTesseract(cfg EngineConfig) (*Tesseract, error) {
	if cfg.PoolSize < 1 {
		cfg.PoolSize = runtime.NumCPU()
	}
	t := &Tesseract{
		cfg:  cfg,
		pool: make(chan *gosseract.Client, cfg.PoolSize),
	}
	for i := 0; i < cfg.PoolSize; i++ {
		c, err := newClient(cfg)
		if err != nil {
			t.Close()
			return nil, err
		}
		t.all = append(t.all, c)
		t.pool <- c
	}
	return t, nil
}

func newClient(cfg EngineConfig) (*gosseract.Client, error) {
	c := gosseract.NewClient()
	fail := func(what string, err error) (*gosseract.Client, error) {
		c.Close()
		return nil, fmt.Errorf("failed to set %s: %w", what, err)
	}

	if cfg.TessdataPrefix != "" {
		if err := c.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			return fail("tessdata prefix", err)
		}
	}
	if cfg.Language != "" {
		if err := c.SetLanguage(cfg.Language); err != nil {
			return fail("language", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		return fail("page segmentation mode", err)
	}
	if cfg.Whitelist != "" {
		if err := c.SetWhitelist(cfg.Whitelist); err != nil {
			return fail("whitelist", err)
		}
	}
	if err := c.SetVariable("preserve_interword_spaces", boolVar(cfg.PreserveInterwordSpaces)); err != nil {
		return fail("preserve_interword_spaces", err)
	}
	if err := c.SetVariable("classify_bln_numeric_mode", boolVar(cfg.NumericMode)); err != nil {
		return fail("classify_bln_numeric_mode", err)
	}
	return c, nil
}

func boolVar(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Config returns the engine configuration.
func (t *Tesseract) Config() EngineConfig {
	return t.cfg
}

// Recognize runs OCR on img and returns the cleaned single-line text. The
// context is honoured while waiting for a free client; a running recognition
// is not interrupted.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyImage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	var c *gosseract.Client
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case c = <-t.pool:
	}
	defer func() { t.pool <- c }()

	if t.isClosed() {
		return "", ErrClosed
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return Clean(text), nil
}

func (t *Tesseract) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Close releases all clients. It waits for running recognitions to finish.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	all := t.all
	t.mu.Unlock()

	// drain so no recognition holds a client while it is closed
	for range all {
		<-t.pool
	}
	var firstErr error
	for _, c := range all {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	// hand the closed clients back so late callers see ErrClosed
	for _, c := range all {
		t.pool <- c
	}
	return firstErr
}

// Info describes the OCR backend.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
	Language  string `json:"language"`
	Whitelist string `json:"whitelist"`
	Error     string `json:"error,omitempty"`
}

// TesseractVersion returns the linked Tesseract version.
func TesseractVersion() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// GetInfo reports the backend for cfg.
func GetInfo(cfg EngineConfig) Info {
	info := Info{
		Backend:   "gosseract",
		Language:  cfg.Language,
		Whitelist: cfg.Whitelist,
	}
	v := TesseractVersion()
	if v == "" {
		info.Error = "tesseract version unavailable"
		return info
	}
	info.Available = true
	info.Version = v
	return info
}
