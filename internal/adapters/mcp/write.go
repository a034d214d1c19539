package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"anchorbar/internal/application"
	"anchorbar/internal/application/commands"
	"anchorbar/internal/ports"
)

// SetOperationOptions configures the files written by the intersect and union tools
type SetOperationOptions struct {
	VertexCount int
	OutputDir   string
}

// RegisterWriteTools adds all catalog mutation and set operation tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, catalog ports.Catalog, codec ports.AnnotationCodec, opts SetOperationOptions) {
	s.AddTool(renameAnnotationTool(), renameAnnotationHandler(catalog))
	s.AddTool(renameLabelTool(), renameLabelHandler(catalog))
	s.AddTool(abbreviateLabelTool(), abbreviateLabelHandler(catalog))
	s.AddTool(reassignLabelTool(), reassignLabelHandler(catalog))
	s.AddTool(dropAnnotationTool(), dropAnnotationHandler(catalog))
	s.AddTool(setOperationTool(application.PolicyIntersect), setOperationHandler(catalog, codec, application.PolicyIntersect, opts))
	s.AddTool(setOperationTool(application.PolicyUnion), setOperationHandler(catalog, codec, application.PolicyUnion, opts))
}

func annotationParam() mcp.ToolOption {
	return mcp.WithNumber("annotation_id",
		mcp.Description("Annotation id as shown by list_annotations"),
		mcp.Required(),
	)
}

func keyParam(name, description string) mcp.ToolOption {
	return mcp.WithNumber(name,
		mcp.Description(description),
		mcp.Required(),
	)
}

// Missing ids default to 0, which command validation rejects
func annotationID(req mcp.CallToolRequest, name string) int64 {
	return int64(req.GetInt(name, 0))
}

// Missing keys default to -1, which command validation rejects
func labelKey(req mcp.CallToolRequest, name string) int {
	return req.GetInt(name, -1)
}

// --- rename_annotation ---

func renameAnnotationTool() mcp.Tool {
	return mcp.NewTool("rename_annotation",
		mcp.WithDescription("Change the short name of an annotation. The short name is used in set operation output filenames."),
		annotationParam(),
		mcp.WithString("short_name",
			mcp.Description("New short name"),
			mcp.Required(),
		),
	)
}

func renameAnnotationHandler(catalog ports.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRenameAnnotationCommand(catalog,
			annotationID(req, "annotation_id"), req.GetString("short_name", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- rename_label ---

func renameLabelTool() mcp.Tool {
	return mcp.NewTool("rename_label",
		mcp.WithDescription("Rename one label of an annotation."),
		annotationParam(),
		keyParam("label_key", "Label key as shown by list_labels"),
		mcp.WithString("name",
			mcp.Description("New label name"),
			mcp.Required(),
		),
	)
}

func renameLabelHandler(catalog ports.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRenameLabelCommand(catalog,
			annotationID(req, "annotation_id"), labelKey(req, "label_key"), req.GetString("name", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- abbreviate_label ---

func abbreviateLabelTool() mcp.Tool {
	return mcp.NewTool("abbreviate_label",
		mcp.WithDescription("Set the abbreviation of a label. Set operations prefer it over the full name when naming merged labels."),
		annotationParam(),
		keyParam("label_key", "Label key as shown by list_labels"),
		mcp.WithString("abbrev",
			mcp.Description("Abbreviation"),
			mcp.Required(),
		),
	)
}

func abbreviateLabelHandler(catalog ports.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAbbreviateLabelCommand(catalog,
			annotationID(req, "annotation_id"), labelKey(req, "label_key"), req.GetString("abbrev", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- reassign_label ---

func reassignLabelTool() mcp.Tool {
	return mcp.NewTool("reassign_label",
		mcp.WithDescription("Move every vertex of one label onto another label of the same annotation and delete the old label. A new key of 0 leaves the vertices unlabeled."),
		annotationParam(),
		keyParam("old_key", "Label whose vertices are moved"),
		keyParam("new_key", "Label receiving the vertices"),
	)
}

func reassignLabelHandler(catalog ports.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewReassignCommand(catalog,
			annotationID(req, "annotation_id"), labelKey(req, "old_key"), labelKey(req, "new_key"))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- drop_annotation ---

func dropAnnotationTool() mcp.Tool {
	return mcp.NewTool("drop_annotation",
		mcp.WithDescription("Remove an annotation with all of its labels and vertices from the catalog. This cannot be undone."),
		annotationParam(),
	)
}

func dropAnnotationHandler(catalog ports.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDropCommand(catalog, annotationID(req, "annotation_id")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- intersect / union ---

func setOperationTool(p application.Policy) mcp.Tool {
	description := "Write a new annotation labeling the vertices labeled in both annotations. " +
		"Merged labels are named <label1>_<label2>."
	if p == application.PolicyUnion {
		description = "Write a new annotation labeling the vertices labeled in either annotation. " +
			"Merged labels are named <label1>_<label2>, with NULL for the unlabeled side."
	}
	return mcp.NewTool(p.String(),
		mcp.WithDescription(description+" Both annotations must belong to the same hemisphere."),
		mcp.WithNumber("left_id",
			mcp.Description("First annotation id"),
			mcp.Required(),
		),
		mcp.WithNumber("right_id",
			mcp.Description("Second annotation id"),
			mcp.Required(),
		),
	)
}

func setOperationHandler(catalog ports.Catalog, codec ports.AnnotationCodec, p application.Policy, opts SetOperationOptions) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewSetOperationCommand(catalog, codec, p,
			annotationID(req, "left_id"), annotationID(req, "right_id"))
		if opts.VertexCount > 0 {
			cmd.VertexCount = opts.VertexCount
		}
		if opts.OutputDir != "" {
			cmd.OutputDir = opts.OutputDir
		}

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%d overlapping vertices, %d merged labels\n%s",
			result.Vertices, result.Labels, result.Message)), nil
	}
}
