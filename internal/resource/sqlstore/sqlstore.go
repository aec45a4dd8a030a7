// internal/resource/sqlstore/sqlstore.go
//
// SQL-backed resource Manager.
//
// Context
// -------
// Production content lives in two tables:
//
//	resource          (id PK, path UNIQUE, parent_path, primary_type, resource_type)
//	resource_property (resource_id, name, value)
//	resource_alias    (alias_path PK, target_path)
//
// Resolve runs three parameterised queries: the resource row, its property
// rows, and its child paths.  Property values are stored as strings; callers
// that need typed values decode them through a resource.Mapper.
//
// Notes
// -----
// • Wrap the Store in resource.NewCached for per-path caching.
// • Errors other than "no rows" are returned wrapped so the HTTP layer can
//   tell a 404 from a 500.
// • Oxford commas, two spaces after periods.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/objview/internal/metrics"
	"github.com/yanizio/objview/internal/resource"
)

// TypeName identifies this Manager to templates.
const TypeName = "github.com/yanizio/objview/internal/resource/sqlstore.Store"

type row struct {
	ID           uint64         `db:"id"`
	Path         string         `db:"path"`
	PrimaryType  string         `db:"primary_type"`
	ResourceType sql.NullString `db:"resource_type"`
}

type prop struct {
	Name  string `db:"name"`
	Value string `db:"value"`
}

// Store resolves resources from a content database.
type Store struct {
	db      *sqlx.DB
	mappers *resource.Mappers
}

// compile-time assertion
var _ resource.Manager = (*Store)(nil)

// New returns a Store reading from db.  mappers may be nil.
func New(db *sqlx.DB, mappers *resource.Mappers) *Store {
	return &Store{db: db, mappers: mappers}
}

// Resolve loads the resource at p.
func (s *Store) Resolve(ctx context.Context, p string) (resource.Resource, error) {
	p = path.Clean("/" + p)

	const qRow = `SELECT id, path, primary_type, resource_type
	              FROM   resource
	              WHERE  path = ?
	              LIMIT  1`
	var r row
	if err := s.db.GetContext(ctx, &r, qRow, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.ResourceResolveTotal.WithLabelValues("missing").Inc()
			return nil, fmt.Errorf("%s: %w", p, resource.ErrNotFound)
		}
		return nil, fmt.Errorf("load resource %s: %w", p, err)
	}

	const qProps = `SELECT name, value FROM resource_property WHERE resource_id = ?`
	props := make([]prop, 0, 8)
	if err := s.db.SelectContext(ctx, &props, qProps, r.ID); err != nil {
		return nil, fmt.Errorf("load properties %s: %w", p, err)
	}

	const qChildren = `SELECT path FROM resource WHERE parent_path = ? ORDER BY path`
	var children []string
	if err := s.db.SelectContext(ctx, &children, qChildren, p); err != nil {
		return nil, fmt.Errorf("load children %s: %w", p, err)
	}

	n := &resource.Node{
		Path:        r.Path,
		PrimaryType: r.PrimaryType,
		Properties:  make(map[string]any, len(props)+1),
		Children:    make([]string, 0, len(children)),
	}
	for _, pr := range props {
		n.Properties[pr.Name] = pr.Value
	}
	if r.ResourceType.Valid && r.ResourceType.String != "" {
		n.Properties[resource.PropResourceType] = r.ResourceType.String
	}
	for _, c := range children {
		n.Children = append(n.Children, path.Base(c))
	}

	res, err := s.mappers.Build(n)
	if err != nil {
		return nil, err
	}
	metrics.ResourceResolveTotal.WithLabelValues("found").Inc()
	return res, nil
}

func (s *Store) TypeName() string { return TypeName }

// Aliases loads every alias → target pair from resource_alias.
func (s *Store) Aliases(ctx context.Context) (map[string]string, error) {
	const q = `SELECT alias_path, target_path FROM resource_alias`
	rows, err := s.db.QueryxContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load aliases: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var alias, target string
		if err := rows.Scan(&alias, &target); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		out[path.Clean("/"+alias)] = path.Clean("/" + target)
	}
	return out, rows.Err()
}
