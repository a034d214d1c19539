package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"anchorbar/internal/application"
	"anchorbar/internal/application/commands"
	"anchorbar/internal/ports"
)

// RegisterReadTools adds all read-only catalog tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, catalog ports.Catalog) {
	s.AddTool(listAnnotationsTool(), listAnnotationsHandler(catalog))
	s.AddTool(listLabelsTool(), listLabelsHandler(catalog))
}

// --- list_annotations ---

func listAnnotationsTool() mcp.Tool {
	return mcp.NewTool("list_annotations",
		mcp.WithDescription("List every cataloged annotation as: id, hemisphere (lh/rh), short name, source file."),
	)
}

func listAnnotationsHandler(catalog ports.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		annotations, err := commands.NewListAnnotationsCommand(catalog).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(annotations, formatAnnotation)
	}
}

// --- list_labels ---

func listLabelsTool() mcp.Tool {
	return mcp.NewTool("list_labels",
		mcp.WithDescription("List the labels of one annotation as: key, name, abbreviation, color."),
		mcp.WithNumber("annotation_id",
			mcp.Description("Annotation id as shown by list_annotations"),
			mcp.Required(),
		),
	)
}

func listLabelsHandler(catalog ports.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(req.GetInt("annotation_id", 0))

		labels, err := commands.NewListLabelsCommand(catalog, id).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(labels, formatLabel)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatAnnotation(a application.Annotation) string {
	return fmt.Sprintf("%d  %s %s  %s", a.ID, a.Hemisphere, a.ShortName, filepath.Join(a.Path, a.Filename))
}

func formatLabel(l application.Label) string {
	abbrev := l.Abbrev
	if abbrev == "" {
		abbrev = "-"
	}
	return fmt.Sprintf("%d  %s  %s  %s", l.Key, l.Name, abbrev, l.Color.Hex())
}
