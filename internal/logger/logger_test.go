package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNew_WritesDailyFile(t *testing.T) {
	root := t.TempDir()
	restore := zap.ReplaceGlobals(zap.NewNop())
	defer restore()

	log, err := New(root, Options{Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	zap.S().Debugw("sample", "k", "v")
	_ = log.Sync()

	raw, err := os.ReadFile(filepath.Join(root, "logs", FileName(time.Now())))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{`"msg":"logger online"`, `"msg":"sample"`, `"level":"debug"`} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("log file missing %s:\n%s", want, raw)
		}
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(t.TempDir(), Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
