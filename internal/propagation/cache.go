package propagation

import (
	"sync"
	"time"

	"github.com/eoplan/missionplanner/internal/geometry"
)

// cacheKey identifies a memoized propagator evaluation: satellite id plus
// timestamp rounded to one second, per spec.md's caching rule.
type cacheKey struct {
	satelliteID string
	roundedUnix int64
}

// Cache wraps a Propagator with request-scoped memoization. It never
// evicts entries; callers construct one Cache per planning request and
// let it fall out of scope when the request completes. Grounded on
// litescript/ls-horizons's VisibilityCache (an RWMutex-guarded map keyed
// by spacecraft code), generalized from a 5-minute TTL to a
// non-evicting, request-lifetime cache and from one key to a
// (satellite, time) composite key.
type Cache struct {
	inner Propagator

	mu           sync.RWMutex
	positions    map[cacheKey]Position
	positionErrs map[cacheKey]error

	targetECEFMu sync.RWMutex
	targetECEF   map[string]geometry.Vec3
}

// NewCache wraps inner with a memoizing cache.
func NewCache(inner Propagator) *Cache {
	return &Cache{
		inner:        inner,
		positions:    make(map[cacheKey]Position),
		positionErrs: make(map[cacheKey]error),
		targetECEF:   make(map[string]geometry.Vec3),
	}
}

func roundKey(satelliteID string, t time.Time) cacheKey {
	return cacheKey{satelliteID: satelliteID, roundedUnix: t.Round(time.Second).Unix()}
}

// Propagate returns the memoized subpoint for (satelliteID, t), computing
// and storing it on first access.
func (c *Cache) Propagate(satelliteID string, t time.Time) (Position, error) {
	key := roundKey(satelliteID, t)

	c.mu.RLock()
	if pos, ok := c.positions[key]; ok {
		c.mu.RUnlock()
		return pos, nil
	}
	if err, ok := c.positionErrs[key]; ok {
		c.mu.RUnlock()
		return Position{}, err
	}
	c.mu.RUnlock()

	pos, err := c.inner.Propagate(satelliteID, t)

	c.mu.Lock()
	if err != nil {
		c.positionErrs[key] = err
	} else {
		c.positions[key] = pos
	}
	c.mu.Unlock()

	return pos, err
}

// OrbitalPeriod delegates to the wrapped Propagator.
func (c *Cache) OrbitalPeriod(satelliteID string) (time.Duration, bool) {
	return c.inner.OrbitalPeriod(satelliteID)
}

// TargetECEF returns the memoized ECEF location vector for a ground
// target. Ground targets are fixed in the ECEF frame, so this value never
// changes within a request and is computed once per target id.
func (c *Cache) TargetECEF(targetID string, latDeg, lonDeg, altKm float64) geometry.Vec3 {
	c.targetECEFMu.RLock()
	if v, ok := c.targetECEF[targetID]; ok {
		c.targetECEFMu.RUnlock()
		return v
	}
	c.targetECEFMu.RUnlock()

	v := geometry.GeodeticToECEF(latDeg, lonDeg, altKm)

	c.targetECEFMu.Lock()
	c.targetECEF[targetID] = v
	c.targetECEFMu.Unlock()

	return v
}

// Len reports the number of memoized position entries, for diagnostics.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.positions)
}
