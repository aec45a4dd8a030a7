// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last), on top of Defaults():

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `OBJVIEW_`, where `__` maps to “.”
     (e.g., `OBJVIEW_HTTP__LISTEN_ADDR → http.listen_addr`).

Every string leaf that starts with `vault:` is then swapped for the secret
it names, using the SecretResolver passed to Load.  After that the tree is
unmarshalled into strongly-typed structs, enriched with the runtime root
path, validated, and cached in an `atomic.Pointer` for lock-free reads.
`Reload()` calls `Load()` again with the last resolver and swaps the
pointer.

Instrumentation
---------------
  • DEBUG spans – root discovery, YAML read, env overlay, secret swaps.
  • ERROR spans – YAML parse, env overlay, secrets, unmarshal, validation.
  • INFO  span  – final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/objview/internal/vault"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "OBJVIEW_"

// ErrNoResolver means a `vault:` reference was found but Load had no
// SecretResolver to resolve it with.
var ErrNoResolver = errors.New("config: vault reference without a secret resolver")

// SecretResolver turns a `vault:` reference into its secret.
// *vault.Client satisfies it.
type SecretResolver interface {
	ResolveRef(ctx context.Context, ref string) (string, error)
}

var (
	current atomic.Pointer[Config]

	lastMu       sync.Mutex
	lastResolver SecretResolver
)

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves OBJVIEW_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.  secrets may be nil when no value uses `vault:`.
func Load(ctx context.Context, secrets SecretResolver) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: OBJVIEW_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, k, secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	cfg.Content.Tree = absUnder(root, cfg.Content.Tree)
	cfg.Content.Templates = absUnder(root, cfg.Content.Templates)
	if cfg.Geo.DB != "" {
		cfg.Geo.DB = absUnder(root, cfg.Geo.DB)
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	lastMu.Lock()
	lastResolver = secrets
	lastMu.Unlock()

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"sql_store", cfg.Database.UsesSQL(),
		"maps_objects", cfg.Objects.MapsObjects(),
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last loaded Config, or nil before the first Load.
func Get() *Config { return current.Load() }

// Reload re-runs Load with the resolver from the previous call.
func Reload(ctx context.Context) error {
	lastMu.Lock()
	r := lastResolver
	lastMu.Unlock()
	_, err := Load(ctx, r)
	return err
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	if s == "ROOT" {
		return "" // consumed by rootDir, not part of the tree
	}
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

// resolveSecrets swaps every `vault:` string leaf for its secret.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, r SecretResolver) error {
	for key, val := range k.All() {
		s, ok := val.(string)
		if !ok || !vault.IsRef(s) {
			continue
		}
		if r == nil {
			return fmt.Errorf("%s: %w", key, ErrNoResolver)
		}
		secret, err := r.ResolveRef(ctx, s)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := k.Set(key, secret); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		zap.S().Debugw("config secret resolved", "key", key)
	}
	return nil
}

func absUnder(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
