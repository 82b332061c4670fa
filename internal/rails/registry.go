package rails

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

type Registry struct {
	mu    sync.RWMutex
	rails map[string]Rail
}

func NewRegistry() *Registry {
	return &Registry{rails: map[string]Rail{}}
}

// NewDefaultRegistry wires the rails shipped with the service.
func NewDefaultRegistry(graphURL string, timeout time.Duration) *Registry {
	r := NewRegistry()
	meta := NewMetaRail(graphURL, &http.Client{Timeout: timeout})
	r.Register(meta, PlatformFacebook, PlatformInstagram)
	return r
}

// Register binds a rail to one or more platform identifiers.
func (r *Registry) Register(rail Rail, platforms ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range platforms {
		r.rails[normalize(p)] = rail
	}
}

// Resolve looks up a rail case-insensitively. A missing platform is not an
// error.
func (r *Registry) Resolve(platform string) (Rail, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rail, ok := r.rails[normalize(platform)]
	return rail, ok
}

func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.rails))
	for p := range r.rails {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func normalize(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}
