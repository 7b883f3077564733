package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/trailcam-ocr/internal/ocr"
	"github.com/ironsheep/trailcam-ocr/internal/recognize"
)

// newTestServer returns a server whose OCR always reads text.
func newTestServer(text string) *Server {
	rec := ocr.RecognizerFunc(func(context.Context, image.Image) (string, error) {
		return text, nil
	})
	engine := recognize.New(rec, recognize.DefaultOptions())
	return New(engine, Options{
		Version: "test",
		Workers: 2,
		EngineInfo: func() ocr.Info {
			return ocr.Info{Available: true, Version: "5.3.0", Backend: "gosseract", Language: "eng"}
		},
	}, nil)
}

// writeFrame writes a 160x120 frame with a 14-row dark banner.
func writeFrame(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 160, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 160; x++ {
			v := uint8(150)
			if y < 14 {
				v = 8
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

// callTool runs tools/call and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args interface{}, out interface{}) *MCPResponse {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: raw})
	if resp == nil {
		t.Fatal("nil response")
	}
	if resp.Error != nil || out == nil {
		return resp
	}
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
		t.Fatalf("decode tool result: %v", err)
	}
	return resp
}
