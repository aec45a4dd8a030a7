package database

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestOpenWithOptions_Sqlmock(t *testing.T) {
	const dsn = "objview_open_ok"
	db, mock, err := sqlmock.NewWithDSN(dsn, sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	opts := DefaultOptions()
	opts.Driver = "sqlmock"
	sx, err := OpenWithOptions(context.Background(), dsn, opts)
	if err != nil {
		t.Fatalf("OpenWithOptions: %v", err)
	}
	defer sx.Close()

	if got := sx.Stats().MaxOpenConnections; got != opts.MaxOpenConns {
		t.Fatalf("MaxOpenConnections = %d, want %d", got, opts.MaxOpenConns)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOpenWithOptions_UnknownDriver(t *testing.T) {
	opts := Options{Driver: "nope", RetryBackoff: time.Millisecond}
	if _, err := OpenWithOptions(context.Background(), "x", opts); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestWithPassword(t *testing.T) {
	got, err := WithPassword("objview@tcp(db:3306)/content?parseTime=true", "s3cret")
	if err != nil {
		t.Fatalf("WithPassword: %v", err)
	}
	if !strings.HasPrefix(got, "objview:s3cret@tcp(db:3306)/content") {
		t.Fatalf("dsn = %q", got)
	}
	if !strings.Contains(got, "parseTime=true") {
		t.Fatalf("dsn lost parseTime: %q", got)
	}

	same, _ := WithPassword("u@tcp(h)/d", "")
	if same != "u@tcp(h)/d" {
		t.Fatalf("empty password changed dsn: %q", same)
	}
	if _, err := WithPassword("::not a dsn", "pw"); err == nil {
		t.Fatalf("expected parse error")
	}
}
