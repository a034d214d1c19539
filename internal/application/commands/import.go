package commands

import (
	"context"
	"errors"
	"fmt"

	"anchorbar/internal/application"
	"anchorbar/internal/domain"
	"anchorbar/internal/logger"
	"anchorbar/internal/ports"
)

// ImportStatus is the outcome of importing one file
type ImportStatus int

const (
	ImportImported ImportStatus = iota
	ImportDuplicate
	ImportSkipped
	ImportFailed
)

func (s ImportStatus) String() string {
	switch s {
	case ImportImported:
		return "imported"
	case ImportDuplicate:
		return "duplicate"
	case ImportSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// ImportOutcome describes what happened to one file of the batch
type ImportOutcome struct {
	Path         string
	Status       ImportStatus
	AnnotationID int64 // New id, or the existing id for duplicates
	Labels       int
	Vertices     int
	Err          error
	Message      string
}

// ImportResult contains the outcome of every file in the batch
type ImportResult struct {
	Outcomes []ImportOutcome
}

// Failed returns the number of files that failed for reasons other than
// being duplicates or lacking a hemisphere prefix
func (r *ImportResult) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == ImportFailed {
			n++
		}
	}
	return n
}

// ImportCommand imports annotation files into the catalog
type ImportCommand struct {
	catalog ports.Catalog
	sources ports.SourceFiles
	codec   ports.AnnotationCodec
	log     *logger.Logger
	Paths   []string
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(catalog ports.Catalog, sources ports.SourceFiles, codec ports.AnnotationCodec, log *logger.Logger, paths []string) *ImportCommand {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportCommand{
		catalog: catalog,
		sources: sources,
		codec:   codec,
		log:     log,
		Paths:   paths,
	}
}

// Validate checks that at least one file was given
func (c *ImportCommand) Validate() error {
	if len(c.Paths) == 0 {
		return &application.ValidationError{
			Field:   "paths",
			Message: "at least one annotation file is required",
		}
	}
	for _, p := range c.Paths {
		if err := application.ValidateRequired("paths", p); err != nil {
			return err
		}
	}
	return nil
}

// Execute imports every file, descending into directories. A duplicate or a missing hemisphere prefix
// skips that file only; the rest of the batch still runs.
func (c *ImportCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	paths, err := c.sources.Expand(c.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotation files: %w", err)
	}

	result := &ImportResult{}
	for _, path := range paths {
		outcome := c.importOne(ctx, path)
		log := c.log.With("path", path)
		switch outcome.Status {
		case ImportImported:
			log.Info("annotation imported", "annotation_id", outcome.AnnotationID,
				"labels", outcome.Labels, "vertices", outcome.Vertices)
		case ImportDuplicate:
			log.Info("annotation already imported", "annotation_id", outcome.AnnotationID)
		case ImportSkipped:
			log.Warn("skipping file", "reason", outcome.Err)
		default:
			log.Error("import failed", "error", outcome.Err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}

func (c *ImportCommand) importOne(ctx context.Context, path string) ImportOutcome {
	out := ImportOutcome{Path: path}

	hemi, err := domain.HemisphereFromFilename(path)
	if err != nil {
		out.Status = ImportSkipped
		out.Err = &application.ImportError{Path: path, Err: err}
		out.Message = fmt.Sprintf("Skipping %s: could not infer hemisphere from filename. "+
			"Please ensure that .annot files are prefixed with 'lh.' or 'rh.'", path)
		return out
	}

	src, err := c.sources.Stat(path)
	if err != nil {
		return failed(out, err)
	}

	existing, err := c.catalog.FindByFingerprint(ctx, src.Fingerprint)
	if err != nil {
		return failed(out, err)
	}
	if existing != nil {
		return duplicate(out, existing.ID)
	}

	file, err := c.codec.Read(path)
	if err != nil {
		return failed(out, err)
	}

	imp, err := domain.NewAnnotationImport(domain.Annotation{
		Fingerprint: src.Fingerprint,
		ShortName:   domain.ShortName(src.Name),
		Hemisphere:  hemi,
		Path:        src.Dir,
		Filename:    src.Name,
	}, file)
	if err != nil {
		return failed(out, err)
	}

	id, err := c.catalog.Import(ctx, imp)
	if errors.Is(err, domain.ErrDuplicateAnnotation) {
		// Lost a race with another invocation importing the same bytes
		existing, findErr := c.catalog.FindByFingerprint(ctx, src.Fingerprint)
		if findErr != nil || existing == nil {
			return duplicate(out, 0)
		}
		return duplicate(out, existing.ID)
	}
	if err != nil {
		return failed(out, err)
	}

	out.Status = ImportImported
	out.AnnotationID = id
	out.Labels = len(imp.Labels)
	out.Vertices = len(imp.Vertices)
	out.Message = fmt.Sprintf("Added %s as annotation %d (%d labels, %d labeled vertices)",
		path, id, out.Labels, out.Vertices)
	return out
}

func failed(out ImportOutcome, err error) ImportOutcome {
	out.Status = ImportFailed
	out.Err = &application.ImportError{Path: out.Path, Err: err}
	out.Message = out.Err.Error()
	return out
}

func duplicate(out ImportOutcome, existingID int64) ImportOutcome {
	out.Status = ImportDuplicate
	out.AnnotationID = existingID
	out.Err = &application.ImportError{Path: out.Path, Err: domain.ErrDuplicateAnnotation}
	out.Message = fmt.Sprintf("Skipping %s: already imported as annotation %d", out.Path, existingID)
	return out
}
