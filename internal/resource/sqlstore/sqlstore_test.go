// internal/resource/sqlstore/sqlstore_test.go
//
// Unit-tests for the SQL resource store using sqlmock.
//
// Run: go test ./internal/resource/sqlstore -v

package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/objview/internal/resource"
)

const (
	qRow      = `SELECT id, path, primary_type, resource_type FROM resource WHERE path = ? LIMIT 1`
	qProps    = `SELECT name, value FROM resource_property WHERE resource_id = ?`
	qChildren = `SELECT path FROM resource WHERE parent_path = ? ORDER BY path`
)

type article struct {
	Headline string `yaml:"headline"`
}

func (*article) TypeName() string { return "news.Article" }

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestResolve_MappedResource(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(qRow)).
		WithArgs("/news/launch").
		WillReturnRows(sqlmock.NewRows([]string{"id", "path", "primary_type", "resource_type"}).
			AddRow(7, "/news/launch", "page", "news/article"))
	mock.ExpectQuery(regexp.QuoteMeta(qProps)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}).
			AddRow("headline", "We launched"))
	mock.ExpectQuery(regexp.QuoteMeta(qChildren)).
		WithArgs("/news/launch").
		WillReturnRows(sqlmock.NewRows([]string{"path"}).
			AddRow("/news/launch/gallery").AddRow("/news/launch/quotes"))

	m := resource.NewMappers()
	m.Register("news/article", resource.Decode(func() *article { return &article{} }))

	r, err := New(db, m).Resolve(context.Background(), "news/launch/")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.ResourceType() != "news/article" {
		t.Fatalf("ResourceType = %q", r.ResourceType())
	}

	np, ok := resource.NodeOf(r)
	if !ok {
		t.Fatalf("missing NodeProvider")
	}
	if diff := cmp.Diff([]string{"gallery", "quotes"}, np.Node().Children); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}

	op, ok := resource.ObjectOf(r)
	if !ok {
		t.Fatalf("missing ObjectProvider")
	}
	if got := op.Object().(*article).Headline; got != "We launched" {
		t.Fatalf("headline = %q", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(qRow)).
		WithArgs("/ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "path", "primary_type", "resource_type"}))

	_, err := New(db, nil).Resolve(context.Background(), "/ghost")
	if !errors.Is(err, resource.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestResolve_QueryError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta(qRow)).
		WithArgs("/x").
		WillReturnError(boom)

	_, err := New(db, nil).Resolve(context.Background(), "/x")
	if !errors.Is(err, boom) || errors.Is(err, resource.ErrNotFound) {
		t.Fatalf("err = %v, want wrapped connection error", err)
	}
}

func TestAliases(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT alias_path, target_path FROM resource_alias`)).
		WillReturnRows(sqlmock.NewRows([]string{"alias_path", "target_path"}).
			AddRow("/launch", "/news/launch").
			AddRow("team/", "about/team"))

	got, err := New(db, nil).Aliases(context.Background())
	if err != nil {
		t.Fatalf("Aliases: %v", err)
	}
	want := map[string]string{"/launch": "/news/launch", "/team": "/about/team"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("aliases mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
