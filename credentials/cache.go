package credentials

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is applied to stored credentials whose server declared no expiry.
const DefaultTTL = time.Hour

// GetOptions modifies a single GetOrCompute call.
type GetOptions struct {
	// ForceRefreshOlderThanOrEqual demands a credential whose expiry is
	// strictly newer than the given epoch-seconds threshold. A cached entry
	// with expiresAt <= threshold is bypassed and recomputed; a newer one
	// (for example a refresh completed by a concurrent caller) is returned
	// as-is. Used to recover from an observed authorization failure without
	// clobbering a concurrent refresh.
	ForceRefreshOlderThanOrEqual *int64
}

// Stats is a snapshot of the cache's counters.
type Stats struct {
	Hits      uint64 // reads satisfied from a valid entry
	Misses    uint64 // reads that fell through to the compute path
	Refreshes uint64 // successful computes stored
	Coalesced uint64 // callers satisfied by a refresh completed while they waited
}

type entry struct {
	credential Credential
	expiresAt  int64
}

// Cache is a concurrent credential store with TTL semantics, single-flight
// refresh coordination and forced-invalidation support. Reads are lock-free;
// all compute-and-store paths are serialized through one mutex regardless of
// key, so at most one refresh is in flight system-wide. Callers for a key
// being refreshed wait and then observe the completed refresh instead of
// starting their own.
type Cache struct {
	entries      sync.Map // key string -> entry
	writeMu      sync.Mutex
	defaultTTL   time.Duration
	expiryLeeway time.Duration
	nowFunc      func() time.Time
	logger       zerolog.Logger

	hits      atomic.Uint64
	misses    atomic.Uint64
	refreshes atomic.Uint64
	coalesced atomic.Uint64
}

// Option defines a function type to modify the Cache instance.
type Option func(*Cache)

// WithDefaultTTL sets the TTL applied to credentials without a declared expiry.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.defaultTTL = ttl
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) Option {
	return func(c *Cache) {
		c.nowFunc = now
	}
}

// WithLogger sets the logger used for refresh events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithExpiryLeeway makes reads treat entries expiring within the leeway as
// already expired, so refresh happens before the token actually lapses.
// This is an extension over the strict expiresAt > now contract; the
// default of zero preserves the strict behaviour.
func WithExpiryLeeway(leeway time.Duration) Option {
	return func(c *Cache) {
		c.expiryLeeway = leeway
	}
}

// New creates a credential cache. The zero configuration uses DefaultTTL,
// the wall clock and a no-op logger.
func New(options ...Option) *Cache {
	c := &Cache{
		defaultTTL: DefaultTTL,
		nowFunc:    time.Now,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Get looks up the credential for key. It is a pure read: a hit requires
// expiresAt > now, and an expired entry is reported as a miss but left in
// place (only the refresh path rewrites entries). Never blocks on writers.
func (c *Cache) Get(key string) (Credential, bool) {
	e, ok := c.load(key)
	if !ok {
		c.misses.Add(1)
		return Credential{}, false
	}
	c.hits.Add(1)
	return e.credential, true
}

// GetOrCompute returns a cached credential for key, or invokes compute and
// stores its result. The cached credential is returned without calling
// compute when it is unexpired and satisfies the force-refresh threshold
// (if one is given). A compute failure is propagated verbatim, is never
// cached, and leaves any pre-existing entry for the key untouched.
func (c *Cache) GetOrCompute(key string, compute func() (Credential, error), opts GetOptions) (Credential, error) {
	if e, ok := c.lookup(key, opts); ok {
		c.hits.Add(1)
		return e.credential, nil
	}
	c.misses.Add(1)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	// A refresh that completed while we waited for the lock may already
	// satisfy this caller; re-checking here is what prevents the stampede.
	if e, ok := c.lookup(key, opts); ok {
		c.coalesced.Add(1)
		return e.credential, nil
	}

	credential, err := compute()
	if err != nil {
		return Credential{}, err
	}

	expiresAt := credential.ExpiresAt
	if expiresAt == 0 {
		expiresAt = c.nowFunc().Add(c.defaultTTL).Unix()
		credential.ExpiresAt = expiresAt
	}
	c.entries.Store(key, entry{credential: credential, expiresAt: expiresAt})
	c.refreshes.Add(1)
	c.logger.Debug().Str("key", key).Int64("expiresAt", expiresAt).Msg("credential refreshed")

	return credential, nil
}

// Delete removes the entry for key. Administrative reset only, never part
// of the acquisition hot path.
func (c *Cache) Delete(key string) {
	c.entries.Delete(key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Refreshes: c.refreshes.Load(),
		Coalesced: c.coalesced.Load(),
	}
}

// load returns the unexpired entry for key, if any.
func (c *Cache) load(key string) (entry, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return entry{}, false
	}
	e := v.(entry)
	now := c.nowFunc().Add(c.expiryLeeway).Unix()
	if e.expiresAt <= now {
		return entry{}, false
	}
	return e, true
}

// lookup applies the force-refresh threshold on top of expiry checking.
func (c *Cache) lookup(key string, opts GetOptions) (entry, bool) {
	e, ok := c.load(key)
	if !ok {
		return entry{}, false
	}
	if opts.ForceRefreshOlderThanOrEqual != nil && e.expiresAt <= *opts.ForceRefreshOlderThanOrEqual {
		return entry{}, false
	}
	return e, true
}
