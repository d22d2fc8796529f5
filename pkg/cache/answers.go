package cache

import (
	"context"
	"time"

	"github.com/matzehuels/bowerimport/pkg/observability"
)

// DefaultAnswerTTL is how long a prompt answer is remembered.
const DefaultAnswerTTL = 90 * 24 * time.Hour

const (
	keyTypeMain   = "main"
	keyTypeGlobal = "global"
)

// Answers remembers prompt answers per installed package directory.
// Lookups that fail are treated as misses; the caller will ask again.
type Answers struct {
	cache Cache
	ttl   time.Duration
}

// NewAnswers wraps c. A nil cache disables persistence.
func NewAnswers(c Cache, ttl time.Duration) *Answers {
	if c == nil {
		c = NewNullCache()
	}
	if ttl <= 0 {
		ttl = DefaultAnswerTTL
	}
	return &Answers{cache: c, ttl: ttl}
}

// MainFile returns the remembered main file for the package installed in dir.
func (a *Answers) MainFile(ctx context.Context, dir string) (string, bool) {
	return a.get(ctx, keyTypeMain, hashKey(keyTypeMain, dir))
}

// SetMainFile remembers the main file for the package installed in dir.
func (a *Answers) SetMainFile(ctx context.Context, dir, main string) error {
	return a.set(ctx, keyTypeMain, hashKey(keyTypeMain, dir), main)
}

// Global returns the remembered exported global of main in dir.
func (a *Answers) Global(ctx context.Context, dir, main string) (string, bool) {
	return a.get(ctx, keyTypeGlobal, hashKey(keyTypeGlobal, dir, main))
}

// SetGlobal remembers the exported global of main in dir.
func (a *Answers) SetGlobal(ctx context.Context, dir, main, global string) error {
	return a.set(ctx, keyTypeGlobal, hashKey(keyTypeGlobal, dir, main), global)
}

func (a *Answers) get(ctx context.Context, keyType, key string) (string, bool) {
	data, ok, err := a.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return "", false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return string(data), true
}

func (a *Answers) set(ctx context.Context, keyType, key, value string) error {
	if err := a.cache.Set(ctx, key, []byte(value), a.ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(value))
	return nil
}
