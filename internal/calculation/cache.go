package calculation

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/avillarreal/equilibrio/internal/domain"
)

// ResultCache memoizes perspective sets per (period, classification
// map, breakdown set). The key hashes the content of both maps, so a
// changed role or breakdown misses naturally; Invalidate must still be
// called whenever either map is replaced wholesale, since stale
// entries are the primary correctness hazard here.
type ResultCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*domain.PerspectiveSet
}

type cacheKey struct {
	period    string
	rolesHash uint64
	bdHash    uint64
}

// NewResultCache creates an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[cacheKey]*domain.PerspectiveSet)}
}

// Get returns a memoized result for the exact input combination.
func (c *ResultCache) Get(period domain.PeriodSelection, roles map[string]domain.Role, breakdowns map[string]domain.MixedCostBreakdown) (*domain.PerspectiveSet, bool) {
	key := makeKey(period, roles, breakdowns)
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.entries[key]
	return set, ok
}

// Put stores a computed result.
func (c *ResultCache) Put(period domain.PeriodSelection, roles map[string]domain.Role, breakdowns map[string]domain.MixedCostBreakdown, set *domain.PerspectiveSet) {
	key := makeKey(period, roles, breakdowns)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = set
}

// Invalidate drops every entry. Call on any classification change, any
// breakdown change, or a change to the set of mixed accounts.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*domain.PerspectiveSet)
}

// Len reports the number of memoized entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func makeKey(period domain.PeriodSelection, roles map[string]domain.Role, breakdowns map[string]domain.MixedCostBreakdown) cacheKey {
	return cacheKey{
		period:    period.String(),
		rolesHash: hashRoles(roles),
		bdHash:    hashBreakdowns(breakdowns),
	}
}

func hashRoles(roles map[string]domain.Role) uint64 {
	codes := make([]string, 0, len(roles))
	for code := range roles {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	h := fnv.New64a()
	for _, code := range codes {
		h.Write([]byte(code))
		h.Write([]byte{'='})
		h.Write([]byte(roles[code].String()))
		h.Write([]byte{';'})
	}
	return h.Sum64()
}

func hashBreakdowns(breakdowns map[string]domain.MixedCostBreakdown) uint64 {
	codes := make([]string, 0, len(breakdowns))
	for code := range breakdowns {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	h := fnv.New64a()
	for _, code := range codes {
		bd := breakdowns[code]
		h.Write([]byte(code))
		h.Write([]byte{'='})
		h.Write([]byte(bd.FixedComponent.String()))
		h.Write([]byte{','})
		h.Write([]byte(bd.VariableRate.String()))
		h.Write([]byte{';'})
	}
	return h.Sum64()
}
