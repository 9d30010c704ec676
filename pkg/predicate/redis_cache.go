package predicate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// StaticChecker is satisfied by the plain package-level StaticCheck
// function (via DefaultStaticChecker) and by RedisProgramCache, letting
// callers that want cross-process caching swap one in wherever a checker
// is accepted (pkg/verifier.VerifyWithChecker, pkg/store).
type StaticChecker interface {
	StaticCheck(ctx context.Context, exprText string, declared []string) (undefined []string, syntaxErr error)
}

type defaultStaticChecker struct{}

func (defaultStaticChecker) StaticCheck(_ context.Context, exprText string, declared []string) ([]string, error) {
	return StaticCheck(exprText, declared)
}

// DefaultStaticChecker wraps the uncached package-level StaticCheck as a
// StaticChecker, the one pkg/icl's pure entry points use.
var DefaultStaticChecker StaticChecker = defaultStaticChecker{}

// RedisProgramCache memoizes StaticCheck results across verifier
// processes, keyed by a hash of the expression text and its declared symbol
// set. This promotes the in-process compiled-program cache pattern (a map
// guarded by a mutex, keyed by expression text) to a cache shared across
// processes, since CEL compilation is the expensive step StaticCheck
// otherwise repeats on every verify call.
type RedisProgramCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProgramCache wraps an existing client. ttl of zero means entries
// never expire.
func NewRedisProgramCache(client *redis.Client, ttl time.Duration) *RedisProgramCache {
	return &RedisProgramCache{client: client, ttl: ttl}
}

type cachedStaticCheck struct {
	Undefined []string `json:"undefined"`
	SyntaxErr string   `json:"syntax_err,omitempty"`
}

func staticCheckCacheKey(exprText string, declared []string) string {
	h := sha256.New()
	h.Write([]byte(exprText))
	h.Write([]byte{0})
	sorted := append([]string(nil), declared...)
	sort.Strings(sorted)
	h.Write([]byte(strings.Join(sorted, ",")))
	return "icl:static_check:" + hex.EncodeToString(h.Sum(nil))
}

// StaticCheck behaves like the package-level StaticCheck, consulting the
// Redis cache first and populating it on a miss.
func (c *RedisProgramCache) StaticCheck(ctx context.Context, exprText string, declared []string) (undefined []string, syntaxErr error) {
	key := staticCheckCacheKey(exprText, declared)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var cached cachedStaticCheck
		if json.Unmarshal([]byte(raw), &cached) == nil {
			if cached.SyntaxErr != "" {
				return cached.Undefined, errSyntax(cached.SyntaxErr)
			}
			return cached.Undefined, nil
		}
	}

	undefined, syntaxErr = StaticCheck(exprText, declared)

	entry := cachedStaticCheck{Undefined: undefined}
	if syntaxErr != nil {
		entry.SyntaxErr = syntaxErr.Error()
	}
	if raw, err := json.Marshal(entry); err == nil {
		c.client.Set(ctx, key, raw, c.ttl)
	}
	return undefined, syntaxErr
}

type errSyntax string

func (e errSyntax) Error() string { return string(e) }
