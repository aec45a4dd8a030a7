// internal/vault/vault.go
//
// Vault client wrapper.
//
// Context
// -------
//   - Provides a concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds background token renewal, KV-v2 helpers, and per-key caching.
//   - Resolves `vault:<mount>/<path>#<key>` references found in config, so
//     config.Load can hand any such string to ResolveRef.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                     // during boot.
//  2. pw,  err := cli.GetKV(ctx, path, key, ttl)     // anywhere in the app.
//  3. pw,  err := cli.ResolveRef(ctx, "vault:kv/objview/db#password")
//
// Notes
// -----
// • VAULT_ADDR and VAULT_TOKEN are read from the environment.
// • Oxford commas, two spaces after periods.  No em dash.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// RefPrefix marks a config string as a Vault reference.
const RefPrefix = "vault:"

// RefTTL is how long ResolveRef caches a secret.
const RefTTL = 5 * time.Minute

// ErrBadRef is returned for references that do not parse.
var ErrBadRef = errors.New("vault: malformed secret reference")

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Create once at startup and register
// it in the service locator.  Zero value is invalid.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client and starts a background token-renewal loop
// that stops with ctx.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{
		api:   apiCli,
		cache: make(map[string]cached),
	}
	go c.renewLoop(ctx)
	return c, nil
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("vault: secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key
	if ttl > 0 {
		if v, ok := c.cachedValue(canonical); ok {
			return v, nil
		}
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("vault: key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("vault: value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return sval, nil
}

// ResolveRef parses ref with ParseRef and fetches it through GetKV with
// RefTTL.
func (c *Client) ResolveRef(ctx context.Context, ref string) (string, error) {
	path, key, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return c.GetKV(ctx, path, key, RefTTL)
}

// ParseRef splits "vault:<mount>/<path>#<key>" into its secret path and key.
func ParseRef(ref string) (path, key string, err error) {
	rest, ok := strings.CutPrefix(ref, RefPrefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %q lacks %q prefix", ErrBadRef, ref, RefPrefix)
	}
	path, key, ok = strings.Cut(rest, "#")
	if !ok || key == "" || !strings.Contains(path, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	return path, key, nil
}

// IsRef reports whether s looks like a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, RefPrefix) }

func (c *Client) cachedValue(canonical string) (string, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	cv, ok := c.cache[canonical]
	if !ok || !time.Now().Before(cv.exp) {
		return "", false
	}
	return cv.val, true
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	log := zap.S().With("component", "vault")
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelf(0)
		if err != nil {
			log.Warnw("token renew-self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token is not renewable, sleeping", "for", time.Hour)
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
		})
		if err != nil {
			log.Warnw("lifetime watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		c.watch(ctx, watcher, log)
		backoff(ctx, 15*time.Second)
	}
}

// watch blocks until the watcher finishes or ctx ends.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher, log *zap.SugaredLogger) {
	go w.Start()
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				log.Warnw("token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				log.Debugw("token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
