package balance

// DefaultCacheInterval is how many ticks a computed reference power stays valid.
const DefaultCacheInterval int64 = 2500

// Cache holds the last computed reference power and the tick it was taken.
type Cache struct {
	value    float64
	tick     int64
	interval int64
}

// NewCache creates an empty cache valid for interval ticks.
func NewCache(interval int64) *Cache {
	return &Cache{interval: interval}
}

// Get returns the cached value when it is positive and younger than the
// interval.
func (c *Cache) Get(now int64) (float64, bool) {
	if c.value <= 0 {
		return 0, false
	}
	age := now - c.tick
	if age < 0 || age >= c.interval {
		return 0, false
	}
	return c.value, true
}

// Put stores value computed at tick now.
func (c *Cache) Put(value float64, now int64) {
	c.value = value
	c.tick = now
}

// Invalidate empties the cache.
func (c *Cache) Invalidate() {
	c.value = 0
}
