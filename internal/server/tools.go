package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "timestamp_recognize",
			Description: "Read the date and time burned into the overlay banner of a trail-camera frame. " +
				"Returns the canonical timestamp (empty when unrecognized), the raw OCR text, " +
				"and which selection step and candidate produced it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"include_candidates": map[string]interface{}{
						"type":        "boolean",
						"description": "Include one log line per OCR candidate. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "timestamp_recognize_folder",
			Description: "Recognize every image directly inside a folder, sorted by name. Returns one result per image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"folder": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the folder",
					},
					"extensions": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "File extensions to include. Default .png, .jpg, .jpeg",
					},
				},
				"required": []string{"folder"},
			},
		},
		{
			Name: "timestamp_parse",
			Description: "Run the timestamp parser on literal OCR text. Shows the normalized and repaired " +
				"text, the matching strategy and the layout bonus the text would earn.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Raw OCR text",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "timestamp_locate_band",
			Description: "Locate the dark overlay banner at the top of a frame and return its rows, its contrast with the scene below and a base64 PNG of the crop.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report whether the Tesseract engine is available and how it is configured.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
