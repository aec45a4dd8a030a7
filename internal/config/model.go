// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                           – dotenv values,
//   • `conf/global.yaml`                        – primary static file,
//   • `OBJVIEW_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with `vault:` is resolved through a
// SecretResolver *before* unmarshalling, so the model never stores Vault
// references, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Relative content paths are resolved against Paths.Root by the loader.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"time"

	"github.com/yanizio/objview/internal/defineobjects"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
	Debug        bool          `koanf:"debug"` // mounts /debug/objects
}

//
// Database section
//

// Database selects the content store.
//
// An empty DSN means "serve the YAML content tree".  Otherwise the DSN is a
// go-sql-driver/mysql DSN *template* kept in YAML so operators can tweak
// host, port, or flags without touching Vault; Password, usually a
// `vault:` reference, is spliced in at open time.
type Database struct {
	DSN             string        `koanf:"dsn"`
	Password        string        `koanf:"password"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
}

// UsesSQL reports whether the SQL store is configured.
func (d Database) UsesSQL() bool { return d.DSN != "" }

//
// Content section
//

// Content locates the YAML tree and the templates, sizes the caches, and
// selects how vanity aliases are routed.
type Content struct {
	Tree        string        `koanf:"tree"         validate:"required"`
	Templates   string        `koanf:"templates"    validate:"required"`
	CacheSize   int           `koanf:"cache_size"   validate:"gte=1"`
	RoutingMode string        `koanf:"routing_mode" validate:"oneof=absolute alias both"`
	AliasTTL    time.Duration `koanf:"alias_ttl"    validate:"gte=0"`
}

//
// Geo section
//

// Geo points at an optional MaxMind database.
type Geo struct {
	DB string `koanf:"db"` // empty disables lookups
}

//
// Log section
//

// Log selects the minimum level written by internal/logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // OBJVIEW_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP                `koanf:"http"`
	Database Database            `koanf:"database"`
	Content  Content             `koanf:"content"`
	Geo      Geo                 `koanf:"geo"`
	Log      Log                 `koanf:"log"`
	Objects  defineobjects.Names `koanf:"objects"`
	Paths    Paths               `koanf:"-"` // not loaded from config files
}

// Defaults returns the values Load starts from before overlaying files and
// env.
func Defaults() Config {
	return Config{
		HTTP: HTTP{
			ListenAddr:   ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: Database{
			MaxOpenConns:    15,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Content: Content{
			Tree:        "content/tree.yaml",
			Templates:   "templates",
			CacheSize:   256,
			RoutingMode: "both",
			AliasTTL:    5 * time.Minute,
		},
		Objects: defineobjects.DefaultNames(),
	}
}
