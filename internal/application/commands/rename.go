package commands

import (
	"context"
	"fmt"
	"strings"

	"anchorbar/internal/application"
	"anchorbar/internal/ports"
)

// EditResult contains the result of a catalog edit
type EditResult struct {
	AnnotationID int64
	Message      string
}

// RenameAnnotationCommand changes an annotation's short name
type RenameAnnotationCommand struct {
	catalog      ports.Catalog
	AnnotationID int64
	ShortName    string
}

// NewRenameAnnotationCommand creates a new RenameAnnotationCommand
func NewRenameAnnotationCommand(catalog ports.Catalog, annotationID int64, shortName string) *RenameAnnotationCommand {
	return &RenameAnnotationCommand{
		catalog:      catalog,
		AnnotationID: annotationID,
		ShortName:    shortName,
	}
}

// Validate checks the id and new short name. Short names end up in output
// filenames, so path separators are rejected.
func (c *RenameAnnotationCommand) Validate() error {
	if err := application.ValidateID("annotationID", c.AnnotationID); err != nil {
		return err
	}
	if err := application.ValidateRequired("shortName", c.ShortName); err != nil {
		return err
	}
	if strings.ContainsAny(c.ShortName, `/\`) {
		return &application.ValidationError{
			Field:   "shortName",
			Message: fmt.Sprintf("short name cannot contain path separators: %q", c.ShortName),
		}
	}
	return nil
}

// Execute runs the rename command
func (c *RenameAnnotationCommand) Execute(ctx context.Context) (*EditResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(c.ShortName)
	if err := c.catalog.RenameAnnotation(ctx, c.AnnotationID, name); err != nil {
		return nil, err
	}

	return &EditResult{
		AnnotationID: c.AnnotationID,
		Message:      fmt.Sprintf("Renamed annotation %d to %s", c.AnnotationID, name),
	}, nil
}

// RenameLabelCommand changes a label's name within one annotation
type RenameLabelCommand struct {
	catalog      ports.Catalog
	AnnotationID int64
	LabelKey     int
	Name         string
}

// NewRenameLabelCommand creates a new RenameLabelCommand
func NewRenameLabelCommand(catalog ports.Catalog, annotationID int64, key int, name string) *RenameLabelCommand {
	return &RenameLabelCommand{
		catalog:      catalog,
		AnnotationID: annotationID,
		LabelKey:     key,
		Name:         name,
	}
}

// Validate checks the label reference and new name
func (c *RenameLabelCommand) Validate() error {
	if err := application.ValidateID("annotationID", c.AnnotationID); err != nil {
		return err
	}
	if err := application.ValidateLabelKey("labelKey", c.LabelKey); err != nil {
		return err
	}
	return application.ValidateRequired("name", c.Name)
}

// Execute runs the relabel command
func (c *RenameLabelCommand) Execute(ctx context.Context) (*EditResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(c.Name)
	if err := c.catalog.RenameLabel(ctx, c.AnnotationID, c.LabelKey, name); err != nil {
		return nil, err
	}

	return &EditResult{
		AnnotationID: c.AnnotationID,
		Message:      fmt.Sprintf("Renamed label %d of annotation %d to %s", c.LabelKey, c.AnnotationID, name),
	}, nil
}

// AbbreviateLabelCommand sets a label's abbreviation
type AbbreviateLabelCommand struct {
	catalog      ports.Catalog
	AnnotationID int64
	LabelKey     int
	Abbrev       string
}

// NewAbbreviateLabelCommand creates a new AbbreviateLabelCommand
func NewAbbreviateLabelCommand(catalog ports.Catalog, annotationID int64, key int, abbrev string) *AbbreviateLabelCommand {
	return &AbbreviateLabelCommand{
		catalog:      catalog,
		AnnotationID: annotationID,
		LabelKey:     key,
		Abbrev:       abbrev,
	}
}

// Validate checks the label reference and abbreviation
func (c *AbbreviateLabelCommand) Validate() error {
	if err := application.ValidateID("annotationID", c.AnnotationID); err != nil {
		return err
	}
	if err := application.ValidateLabelKey("labelKey", c.LabelKey); err != nil {
		return err
	}
	return application.ValidateRequired("abbrev", c.Abbrev)
}

// Execute runs the abbrev command
func (c *AbbreviateLabelCommand) Execute(ctx context.Context) (*EditResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	abbrev := strings.TrimSpace(c.Abbrev)
	if err := c.catalog.SetLabelAbbrev(ctx, c.AnnotationID, c.LabelKey, abbrev); err != nil {
		return nil, err
	}

	return &EditResult{
		AnnotationID: c.AnnotationID,
		Message:      fmt.Sprintf("Label %d of annotation %d abbreviated as %s", c.LabelKey, c.AnnotationID, abbrev),
	}, nil
}
