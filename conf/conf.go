package conf

import (
	"fmt"
	"sync"
	"time"

	"github.com/nisha7908/sui/sys"
)

type config struct {
	// Address the HTTP gateway binds to.
	apiHost string
	apiPort uint16

	// Shared secret for http api authorization.
	secret string

	// Timeout for a single gateway request.
	apiTimeout time.Duration

	// Requests allowed per second, per IP, against the gateway.
	requestsPerSecond float64

	// Directory the index database lives in. Empty means in-memory.
	databaseDir string

	// Max number of dead object rows removed per prune pass. Zero
	// means prune everything in one pass.
	pruneLimit uint64

	// Max number of digests returned for a prefix lookup.
	maxPrefixMatches int
}

var (
	l sync.RWMutex

	defaultConf = defaultConfig()
	c           = defaultConf
)

func defaultConfig() config {
	return config{
		apiHost: "127.0.0.1",
		apiPort: 9000,

		apiTimeout: 10 * time.Second,

		requestsPerSecond: sys.DefaultAPIRequestsPerSecond,

		pruneLimit: 0,

		maxPrefixMatches: sys.MaxPrefixMatches,
	}
}

type Option func(*config)

// sanitize clamps tunables whose zero values would stall the gateway
// or prefix lookups.
func sanitize() {
	if c.requestsPerSecond <= 0 {
		c.requestsPerSecond = sys.DefaultAPIRequestsPerSecond
	}

	if c.maxPrefixMatches <= 0 {
		c.maxPrefixMatches = sys.MaxPrefixMatches
	}

	if c.apiTimeout <= 0 {
		c.apiTimeout = defaultConf.apiTimeout
	}
}

func WithAPIHost(h string) Option {
	return func(c *config) {
		c.apiHost = h
	}
}

func WithAPIPort(p uint16) Option {
	return func(c *config) {
		c.apiPort = p
	}
}

func WithSecret(s string) Option {
	return func(c *config) {
		c.secret = s
	}
}

func WithAPITimeout(t time.Duration) Option {
	return func(c *config) {
		c.apiTimeout = t
	}
}

func WithRequestsPerSecond(r float64) Option {
	return func(c *config) {
		c.requestsPerSecond = r
	}
}

func WithDatabaseDir(dir string) Option {
	return func(c *config) {
		c.databaseDir = dir
	}
}

func WithPruneLimit(pl uint64) Option {
	return func(c *config) {
		c.pruneLimit = pl
	}
}

func WithMaxPrefixMatches(n int) Option {
	return func(c *config) {
		c.maxPrefixMatches = n
	}
}

func GetAPIHost() string {
	l.RLock()
	t := c.apiHost
	l.RUnlock()

	return t
}

func GetAPIPort() uint16 {
	l.RLock()
	t := c.apiPort
	l.RUnlock()

	return t
}

func GetSecret() string {
	l.RLock()
	t := c.secret
	l.RUnlock()

	return t
}

func GetAPITimeout() time.Duration {
	l.RLock()
	t := c.apiTimeout
	l.RUnlock()

	return t
}

func GetRequestsPerSecond() float64 {
	l.RLock()
	t := c.requestsPerSecond
	l.RUnlock()

	return t
}

func GetDatabaseDir() string {
	l.RLock()
	t := c.databaseDir
	l.RUnlock()

	return t
}

func GetPruneLimit() uint64 {
	l.RLock()
	t := c.pruneLimit
	l.RUnlock()

	return t
}

func GetMaxPrefixMatches() int {
	l.RLock()
	t := c.maxPrefixMatches
	l.RUnlock()

	return t
}

func Update(options ...Option) {
	l.Lock()

	for _, option := range options {
		option(&c)
	}

	sanitize()

	l.Unlock()
}

func Stringify() string {
	l.RLock()
	s := fmt.Sprintf("%+v", c)
	l.RUnlock()

	return s
}

func Reset() {
	l.Lock()
	c = defaultConf
	l.Unlock()
}
