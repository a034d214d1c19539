package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"anchorbar/internal/domain"
)

// catalogTx groups the statements that make up one catalog mutation
type catalogTx struct {
	tx *sql.Tx
}

// withTx runs fn in a transaction, committing on success and rolling back otherwise
func (c *Catalog) withTx(ctx context.Context, fn func(tx *catalogTx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&catalogTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.log.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (t *catalogTx) fingerprintExists(fingerprint string) (bool, error) {
	var n int
	err := t.tx.QueryRow(`SELECT COUNT(*) FROM annotation WHERE fingerprint = ?`, fingerprint).Scan(&n)
	return n > 0, err
}

func (t *catalogTx) labelExists(annotationID int64, key int) (bool, error) {
	var n int
	err := t.tx.QueryRow(`
		SELECT COUNT(*) FROM label WHERE annotation_id = ? AND label_key = ?
	`, annotationID, key).Scan(&n)
	return n > 0, err
}

// insertAnnotation adds the annotation row and returns its new id
func (t *catalogTx) insertAnnotation(a *domain.Annotation) (int64, error) {
	res, err := t.tx.Exec(`
		INSERT INTO annotation (fingerprint, shortname, hemisphere, path, filename)
		VALUES (?, ?, ?, ?, ?)
	`, a.Fingerprint, a.ShortName, int(a.Hemisphere), a.Path, a.Filename)
	if err != nil {
		if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE") {
			return 0, domain.ErrDuplicateAnnotation
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (t *catalogTx) insertLabels(annotationID int64, labels []domain.Label) error {
	stmt, err := t.tx.Prepare(`
		INSERT INTO label (annotation_id, label_key, hemisphere, name, abbreviation, r, g, b, flag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range labels {
		var abbrev sql.NullString
		if l.Abbrev != "" {
			abbrev = sql.NullString{String: l.Abbrev, Valid: true}
		}
		if _, err := stmt.Exec(annotationID, l.Key, int(l.Hemisphere), l.Name, abbrev,
			l.Color.R, l.Color.G, l.Color.B, l.Flag); err != nil {
			return fmt.Errorf("label %d: %w", l.Key, err)
		}
	}
	return nil
}

func (t *catalogTx) insertVertices(annotationID int64, vertices []domain.VertexAssignment) error {
	stmt, err := t.tx.Prepare(`
		INSERT INTO vertex_assignment (annotation_id, vertex_index, label_key)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range vertices {
		if _, err := stmt.Exec(annotationID, v.Vertex, v.LabelKey); err != nil {
			return integrityErr(fmt.Errorf("vertex %d: %w", v.Vertex, err), annotationID, v.LabelKey)
		}
	}
	return nil
}

func (t *catalogTx) moveVertices(annotationID int64, oldKey, newKey int) (int64, error) {
	res, err := t.tx.Exec(`
		UPDATE vertex_assignment SET label_key = ?
		WHERE annotation_id = ? AND label_key = ?
	`, newKey, annotationID, oldKey)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *catalogTx) deleteVerticesOfLabel(annotationID int64, key int) (int64, error) {
	return t.deleteRows(`DELETE FROM vertex_assignment WHERE annotation_id = ? AND label_key = ?`, annotationID, key)
}

func (t *catalogTx) deleteLabel(annotationID int64, key int) error {
	_, err := t.tx.Exec(`DELETE FROM label WHERE annotation_id = ? AND label_key = ?`, annotationID, key)
	return err
}

func (t *catalogTx) deleteRows(query string, args ...any) (int64, error) {
	res, err := t.tx.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// isConstraint reports whether err is an SQLite constraint failure of the given
// extended code. The message is checked too in case extended codes are off.
func isConstraint(err error, extended int, marker string) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == extended {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), marker)
}

// integrityErr maps a foreign-key failure to an IntegrityError
func integrityErr(err error, annotationID int64, key int) error {
	if err == nil {
		return nil
	}
	if isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY") {
		return &domain.IntegrityError{AnnotationID: annotationID, LabelKey: key, Err: err}
	}
	return err
}
