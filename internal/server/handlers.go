package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ironsheep/trailcam-ocr/internal/batch"
	"github.com/ironsheep/trailcam-ocr/internal/imaging"
	"github.com/ironsheep/trailcam-ocr/internal/recognize"
	"github.com/ironsheep/trailcam-ocr/internal/report"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// errMissingArgument marks tool calls without a required argument.
var errMissingArgument = errors.New("missing required argument")

// handleToolsCall executes a tool and wraps its result in MCP's content
// format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithField("tool", params.Name).WithError(err).Warn("tool failed")
		return errorResponse(req.ID, CodeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "timestamp_recognize":
		return s.handleRecognize(ctx, args)
	case "timestamp_recognize_folder":
		return s.handleRecognizeFolder(ctx, args)
	case "timestamp_parse":
		return s.handleParse(args)
	case "timestamp_locate_band":
		return s.handleLocateBand(args)
	case "ocr_info":
		return s.opts.EngineInfo(), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string; on
// failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type recognizeArgs struct {
	Path              string `json:"path"`
	IncludeCandidates bool   `json:"include_candidates"`
}

type recognizeResult struct {
	report.Entry
	Path       string       `json:"path"`
	Band       imaging.Band `json:"band"`
	Candidates []string     `json:"candidates,omitempty"`
}

func (s *Server) handleRecognize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a recognizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path", errMissingArgument)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recognize.ErrDecode, err)
	}
	// a band lookup usually precedes recognition; the frame is done after this
	defer s.cache.Evict(a.Path)

	res := s.engine.RecognizeImage(ctx, filepath.Base(a.Path), img)
	res.Path = a.Path
	if res.Err != nil {
		return nil, res.Err
	}
	out := recognizeResult{Entry: report.NewEntry(res), Path: a.Path, Band: res.Band}
	if a.IncludeCandidates {
		out.Candidates = res.LogLines()
	}
	return out, nil
}

type folderArgs struct {
	Folder     string   `json:"folder"`
	Extensions []string `json:"extensions"`
}

func (s *Server) handleRecognizeFolder(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a folderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Folder == "" {
		return nil, fmt.Errorf("%w: folder", errMissingArgument)
	}
	exts := a.Extensions
	if len(exts) == 0 {
		exts = s.opts.Extensions
	}
	paths, err := batch.ListImages(a.Folder, exts)
	if err != nil {
		return nil, err
	}

	rep, err := batch.NewRunner(s.engine, s.opts.Workers, s.log).Run(ctx, paths)
	if err != nil {
		return nil, err
	}
	rep.Folder = a.Folder
	return report.NewDocument(rep), nil
}

type parseArgs struct {
	Text string `json:"text"`
}

type parseResult struct {
	Normalized  string  `json:"normalized"`
	Repaired    string  `json:"repaired"`
	OK          bool    `json:"ok"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Strategy    string  `json:"strategy,omitempty"`
	LayoutBonus float64 `json:"layout_bonus"`
}

func (s *Server) handleParse(args json.RawMessage) (interface{}, error) {
	var a parseArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, ok := s.engine.Parser().Explain(a.Text)
	out := parseResult{
		Normalized:  m.Normalized,
		Repaired:    m.Repaired,
		OK:          ok,
		LayoutBonus: s.engine.Options().Weights.LayoutScore(a.Text),
	}
	if ok {
		out.Timestamp = m.Timestamp.Canonical()
		out.Strategy = m.Strategy
	}
	return out, nil
}

type bandArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

type bandResult struct {
	imaging.Band
	Height      int                   `json:"height"`
	FrameWidth  int                   `json:"frame_width"`
	FrameHeight int                   `json:"frame_height"`
	Stats       imaging.BandStats     `json:"stats"`
	Image       *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleLocateBand(args json.RawMessage) (interface{}, error) {
	var a bandArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path", errMissingArgument)
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	gray := imaging.ToGray(img)
	band := imaging.LocateBand(gray, s.engine.Options().Band)
	enc, err := imaging.EncodePNG(imaging.CropRows(gray, band), a.Scale)
	if err != nil {
		return nil, err
	}
	return bandResult{
		Band:        band,
		Height:      band.Height(),
		FrameWidth:  gray.Bounds().Dx(),
		FrameHeight: gray.Bounds().Dy(),
		Stats:       imaging.DescribeBand(gray, band, 3),
		Image:       enc,
	}, nil
}
