package sqlite

import (
	"context"
	"database/sql"

	"anchorbar/internal/domain"
)

// sidesCTE selects the labeled vertices of the two operands with their label
// attributes. The first placeholder binds side a, the second side b.
const sidesCTE = `
	WITH a AS (
		SELECT v.vertex_index, l.hemisphere, l.name, l.abbreviation, l.r, l.g, l.b
		FROM vertex_assignment v
		JOIN label l ON l.annotation_id = v.annotation_id AND l.label_key = v.label_key
		WHERE v.annotation_id = ? AND v.label_key > 0
	),
	b AS (
		SELECT v.vertex_index, l.hemisphere, l.name, l.abbreviation, l.r, l.g, l.b
		FROM vertex_assignment v
		JOIN label l ON l.annotation_id = v.annotation_id AND l.label_key = v.label_key
		WHERE v.annotation_id = ? AND v.label_key > 0
	)`

const intersectQuery = sidesCTE + `
	SELECT a.vertex_index, a.hemisphere,
		1, a.name, a.abbreviation, a.r, a.g, a.b,
		1, b.name, b.abbreviation, b.r, b.g, b.b
	FROM a
	JOIN b ON a.vertex_index = b.vertex_index AND a.hemisphere = b.hemisphere
	ORDER BY a.vertex_index`

// Vertices labeled in both operands only come from the first branch, so
// they keep the (a, b) orientation. The second branch adds b-only vertices
// with b on the left, so a one-sided vertex is always <label>_NULL.
const unionQuery = sidesCTE + `
	SELECT a.vertex_index, a.hemisphere,
		1, a.name, a.abbreviation, a.r, a.g, a.b,
		b.vertex_index IS NOT NULL, b.name, b.abbreviation, b.r, b.g, b.b
	FROM a
	LEFT JOIN b ON a.vertex_index = b.vertex_index AND a.hemisphere = b.hemisphere
	UNION
	SELECT b.vertex_index, b.hemisphere,
		1, b.name, b.abbreviation, b.r, b.g, b.b,
		0, NULL, NULL, NULL, NULL, NULL
	FROM b
	LEFT JOIN a ON a.vertex_index = b.vertex_index AND a.hemisphere = b.hemisphere
	WHERE a.vertex_index IS NULL
	ORDER BY 1`

// IntersectRows returns the vertices labeled in both annotations
func (c *Catalog) IntersectRows(ctx context.Context, a, b int64) ([]domain.MergeRow, error) {
	return c.mergeRows(ctx, intersectQuery, a, b)
}

// UnionRows returns the vertices labeled in either annotation
func (c *Catalog) UnionRows(ctx context.Context, a, b int64) ([]domain.MergeRow, error) {
	return c.mergeRows(ctx, unionQuery, a, b)
}

func (c *Catalog) mergeRows(ctx context.Context, query string, a, b int64) ([]domain.MergeRow, error) {
	rows, err := c.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MergeRow
	for rows.Next() {
		var r domain.MergeRow
		var hemi int
		var left, right sideColumns
		if err := rows.Scan(&r.Vertex, &hemi,
			&left.present, &left.name, &left.abbrev, &left.r, &left.g, &left.b,
			&right.present, &right.name, &right.abbrev, &right.r, &right.g, &right.b); err != nil {
			return nil, err
		}
		r.Hemisphere = domain.Hemisphere(hemi)
		r.Left = left.side()
		r.Right = right.side()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	c.log.Debug("merge rows loaded", "a", a, "b", b, "rows", len(out))
	return out, nil
}

// sideColumns holds the nullable columns of one side of a joined row
type sideColumns struct {
	present      bool
	name, abbrev sql.NullString
	r, g, b      sql.NullInt64
}

func (s sideColumns) side() domain.LabelSide {
	if !s.present {
		return domain.LabelSide{}
	}
	return domain.LabelSide{
		Present: true,
		Name:    s.name.String,
		Abbrev:  s.abbrev.String,
		Color: domain.Color{
			R: int(s.r.Int64),
			G: int(s.g.Int64),
			B: int(s.b.Int64),
		},
	}
}
