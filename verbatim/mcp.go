package verbatim

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the extraction tools on an MCP server.
func (e *Extractor) RegisterMCP(srv *mcp.Server) {
	e.registerExtractTool(srv)
	e.registerModesTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func textResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(fmt.Errorf("marshal: %w", err))
		return &res, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) (*mcp.CallToolResult, error) {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res, nil
}

// --- extract ---

type mcpExtractReq struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
}

func (e *Extractor) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "verbatim_extract",
		Description: "Extract marked content from a Verbatim .docx file; writes <stem>_read-doc.docx next to the input.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Path to the input .docx"},
			"mode": map[string]any{"type": "string", "description": "highlighted | underlined | either | and (default: either)"},
		}, []string{"path"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r mcpExtractReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err))
		}
		mode, err := ParseMode(r.Mode)
		if err != nil {
			return toolError(err)
		}
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return toolError(err)
		}
		res, err := e.Extract(data, mode)
		if err != nil {
			return toolError(err)
		}
		outPath := filepath.Join(filepath.Dir(r.Path), OutputFilename(r.Path))
		if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
			return toolError(err)
		}
		return textResult(map[string]any{
			"output_path":        outPath,
			"empty":              res.Empty(),
			"paragraphs_kept":    res.ParagraphsKept,
			"paragraphs_dropped": res.ParagraphsDropped,
			"runs_dropped":       res.RunsDropped,
		})
	})
}

// --- modes ---

func (e *Extractor) registerModesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "verbatim_modes",
		Description: "List the selectable extraction modes.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(map[string]any{"modes": Modes(), "default": ModeEither})
	})
}
