package recollect

import (
	"sync"
	"time"

	"bostoninfo/normalization"
)

// CacheConfig конфигурация кэша подсказок адресов
type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
	MaxSize         int           `json:"max_size"`
}

// CacheEntry запись в кэше
type CacheEntry struct {
	Candidates  []normalization.AddressCandidate
	Expiration  time.Time
	AccessCount int64
}

// CacheStats статистика кэша
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Cache кэш ответов address-suggest
type Cache struct {
	config *CacheConfig
	data   map[string]*CacheEntry
	mutex  sync.Mutex
	stats  *CacheStats
	stop   chan struct{}
	once   sync.Once
}

// NewCache создает новый кэш
func NewCache(config *CacheConfig) *Cache {
	cache := &Cache{
		config: config,
		data:   make(map[string]*CacheEntry),
		stats:  &CacheStats{},
		stop:   make(chan struct{}),
	}

	// Запускаем очистку устаревших записей
	if config.Enabled && config.CleanupInterval > 0 {
		go cache.startCleanup()
	}

	return cache
}

// Get возвращает кандидатов из кэша
func (c *Cache) Get(key string) ([]normalization.AddressCandidate, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.config.Enabled {
		c.stats.Misses++
		return nil, false
	}

	entry, exists := c.data[key]
	if !exists || time.Now().After(entry.Expiration) {
		c.stats.Misses++
		return nil, false
	}

	entry.AccessCount++
	c.stats.Hits++
	return entry.Candidates, true
}

// Set сохраняет кандидатов в кэш
func (c *Cache) Set(key string, candidates []normalization.AddressCandidate) {
	if !c.config.Enabled {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.data[key]; !exists && c.config.MaxSize > 0 && len(c.data) >= c.config.MaxSize {
		c.evictLRU()
	}

	c.data[key] = &CacheEntry{
		Candidates:  candidates,
		Expiration:  time.Now().Add(c.config.TTL),
		AccessCount: 1,
	}
	c.stats.Size = len(c.data)
}

// Clear очищает весь кэш
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]*CacheEntry)
	c.stats = &CacheStats{}
}

// GetStats возвращает статистику кэша
func (c *Cache) GetStats() *CacheStats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	stats := *c.stats
	stats.Size = len(c.data)
	return &stats
}

// Close останавливает фоновую очистку
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// evictLRU удаляет наименее используемую запись
func (c *Cache) evictLRU() {
	var lruKey string
	var lruCount int64 = -1

	for key, entry := range c.data {
		if lruCount == -1 || entry.AccessCount < lruCount {
			lruKey = key
			lruCount = entry.AccessCount
		}
	}

	if lruKey != "" {
		delete(c.data, lruKey)
	}
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup удаляет устаревшие записи
func (c *Cache) cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.Expiration) {
			delete(c.data, key)
		}
	}
	c.stats.Size = len(c.data)
}
