package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"anchorbar/internal/domain"
	"anchorbar/internal/logger"
	"anchorbar/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Catalog implements ports.Catalog using SQLite
type Catalog struct {
	db     *sql.DB
	dbPath string
	log    *logger.Logger
}

// Ensure Catalog implements ports.Catalog
var _ ports.Catalog = (*Catalog)(nil)

// NewCatalog creates a new SQLite catalog
func NewCatalog(log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	return &Catalog{log: log}
}

// Open opens (creating if needed) the catalog database at dbPath
func (c *Catalog) Open(dbPath string) error {
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	c.dbPath = dbPath

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	// Pragmas in the DSN apply to every pooled connection
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One request per process; a single connection keeps transactions simple
	db.SetMaxOpenConns(1)
	c.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS annotation (
			annotation_id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			fingerprint TEXT NOT NULL UNIQUE,
			shortname TEXT,
			hemisphere INTEGER NOT NULL,
			path TEXT NOT NULL,
			filename TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS label (
			annotation_id INTEGER NOT NULL REFERENCES annotation(annotation_id),
			label_key INTEGER NOT NULL CHECK (label_key >= 0),
			hemisphere INTEGER NOT NULL,
			name TEXT,
			abbreviation TEXT,
			r INTEGER NOT NULL DEFAULT 0,
			g INTEGER NOT NULL DEFAULT 0,
			b INTEGER NOT NULL DEFAULT 0,
			flag INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (annotation_id, label_key)
		);
		CREATE TABLE IF NOT EXISTS vertex_assignment (
			annotation_id INTEGER NOT NULL,
			vertex_index INTEGER NOT NULL,
			label_key INTEGER NOT NULL,
			PRIMARY KEY (annotation_id, vertex_index),
			FOREIGN KEY (annotation_id, label_key) REFERENCES label(annotation_id, label_key)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_vertex_label ON vertex_assignment(annotation_id, label_key);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	c.log.Debug("catalog opened", "path", dbPath)
	return nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Import inserts an annotation, its labels and its vertices in one transaction
func (c *Catalog) Import(ctx context.Context, imp *domain.AnnotationImport) (int64, error) {
	var id int64
	err := c.withTx(ctx, func(tx *catalogTx) error {
		exists, err := tx.fingerprintExists(imp.Annotation.Fingerprint)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateAnnotation
		}

		id, err = tx.insertAnnotation(&imp.Annotation)
		if err != nil {
			return err
		}
		if err := tx.insertLabels(id, imp.Labels); err != nil {
			return err
		}
		return tx.insertVertices(id, imp.Vertices)
	})
	if err != nil {
		return 0, err
	}

	c.log.Debug("annotation imported",
		"annotation_id", id,
		"labels", len(imp.Labels),
		"vertices", len(imp.Vertices))
	return id, nil
}

const annotationColumns = `annotation_id, fingerprint, shortname, hemisphere, path, filename`

func scanAnnotation(row interface{ Scan(...any) error }) (*domain.Annotation, error) {
	var a domain.Annotation
	var shortName sql.NullString
	var hemi int
	if err := row.Scan(&a.ID, &a.Fingerprint, &shortName, &hemi, &a.Path, &a.Filename); err != nil {
		return nil, err
	}
	a.ShortName = shortName.String
	a.Hemisphere = domain.Hemisphere(hemi)
	return &a, nil
}

// FindByFingerprint returns the annotation imported from identical bytes, or nil
func (c *Catalog) FindByFingerprint(ctx context.Context, fingerprint string) (*domain.Annotation, error) {
	a, err := scanAnnotation(c.db.QueryRowContext(ctx,
		`SELECT `+annotationColumns+` FROM annotation WHERE fingerprint = ?`, fingerprint))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// GetAnnotation returns one annotation by id
func (c *Catalog) GetAnnotation(ctx context.Context, id int64) (*domain.Annotation, error) {
	a, err := scanAnnotation(c.db.QueryRowContext(ctx,
		`SELECT `+annotationColumns+` FROM annotation WHERE annotation_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("annotation %d: %w", id, domain.ErrNotFound)
	}
	return a, err
}

// ListAnnotations returns all annotations ordered by id
func (c *Catalog) ListAnnotations(ctx context.Context) ([]domain.Annotation, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+annotationColumns+` FROM annotation ORDER BY annotation_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []domain.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, *a)
	}
	return annotations, rows.Err()
}

// ListLabels returns the labels of an annotation ordered by key
func (c *Catalog) ListLabels(ctx context.Context, annotationID int64) ([]domain.Label, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT annotation_id, label_key, hemisphere, name, abbreviation, r, g, b, flag
		FROM label WHERE annotation_id = ?
		ORDER BY label_key
	`, annotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		var l domain.Label
		var hemi int
		var name, abbrev sql.NullString
		if err := rows.Scan(&l.AnnotationID, &l.Key, &hemi, &name, &abbrev,
			&l.Color.R, &l.Color.G, &l.Color.B, &l.Flag); err != nil {
			return nil, err
		}
		l.Hemisphere = domain.Hemisphere(hemi)
		l.Name = name.String
		l.Abbrev = abbrev.String
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// VertexAssignments returns the stored (labeled) vertices of an annotation
func (c *Catalog) VertexAssignments(ctx context.Context, annotationID int64) ([]domain.VertexAssignment, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT annotation_id, vertex_index, label_key
		FROM vertex_assignment WHERE annotation_id = ?
		ORDER BY vertex_index
	`, annotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vertices []domain.VertexAssignment
	for rows.Next() {
		var v domain.VertexAssignment
		if err := rows.Scan(&v.AnnotationID, &v.Vertex, &v.LabelKey); err != nil {
			return nil, err
		}
		vertices = append(vertices, v)
	}
	return vertices, rows.Err()
}

// RenameAnnotation assigns a new short name
func (c *Catalog) RenameAnnotation(ctx context.Context, id int64, shortName string) error {
	res, err := c.db.ExecContext(ctx, `UPDATE annotation SET shortname = ? WHERE annotation_id = ?`, shortName, id)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("annotation %d", id))
}

// RenameLabel assigns a new display name to a label
func (c *Catalog) RenameLabel(ctx context.Context, annotationID int64, key int, name string) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE label SET name = ? WHERE annotation_id = ? AND label_key = ?
	`, name, annotationID, key)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("annotation %d label %d", annotationID, key))
}

// SetLabelAbbrev assigns an abbreviation; an empty string clears it
func (c *Catalog) SetLabelAbbrev(ctx context.Context, annotationID int64, key int, abbrev string) error {
	var value sql.NullString
	if abbrev != "" {
		value = sql.NullString{String: abbrev, Valid: true}
	}
	res, err := c.db.ExecContext(ctx, `
		UPDATE label SET abbreviation = ? WHERE annotation_id = ? AND label_key = ?
	`, value, annotationID, key)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("annotation %d label %d", annotationID, key))
}

// ReassignLabel moves every vertex of label oldKey to newKey, then deletes
// oldKey. Reassigning to the unlabeled key drops the vertex rows instead,
// since unlabeled vertices are not stored. Returns the number of vertices moved.
func (c *Catalog) ReassignLabel(ctx context.Context, annotationID int64, oldKey, newKey int) (int64, error) {
	if oldKey == newKey {
		return 0, fmt.Errorf("cannot reassign label %d to itself", oldKey)
	}

	var moved int64
	err := c.withTx(ctx, func(tx *catalogTx) error {
		ok, err := tx.labelExists(annotationID, oldKey)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("annotation %d label %d: %w", annotationID, oldKey, domain.ErrNotFound)
		}

		if newKey == domain.UnlabeledKey {
			moved, err = tx.deleteVerticesOfLabel(annotationID, oldKey)
		} else {
			ok, err = tx.labelExists(annotationID, newKey)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.IntegrityError{AnnotationID: annotationID, LabelKey: newKey}
			}
			moved, err = tx.moveVertices(annotationID, oldKey, newKey)
		}
		if err != nil {
			return integrityErr(err, annotationID, newKey)
		}

		return integrityErr(tx.deleteLabel(annotationID, oldKey), annotationID, oldKey)
	})
	if err != nil {
		return 0, err
	}

	c.log.Debug("label reassigned",
		"annotation_id", annotationID,
		"from", oldKey,
		"to", newKey,
		"vertices", moved)
	return moved, nil
}

// DropAnnotation deletes vertices, labels and the annotation row in one transaction
func (c *Catalog) DropAnnotation(ctx context.Context, id int64) (*ports.DropStats, error) {
	stats := &ports.DropStats{}
	err := c.withTx(ctx, func(tx *catalogTx) error {
		var err error
		if stats.Vertices, err = tx.deleteRows(`DELETE FROM vertex_assignment WHERE annotation_id = ?`, id); err != nil {
			return err
		}
		if stats.Labels, err = tx.deleteRows(`DELETE FROM label WHERE annotation_id = ?`, id); err != nil {
			return err
		}
		n, err := tx.deleteRows(`DELETE FROM annotation WHERE annotation_id = ?`, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("annotation %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug("annotation dropped", "annotation_id", id, "labels", stats.Labels, "vertices", stats.Vertices)
	return stats, nil
}

func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
