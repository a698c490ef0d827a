package recurrence

import (
	"fmt"
	"time"
)

// EngineConfig holds configuration options for the recurrence engine
type EngineConfig struct {
	CacheEnabled bool        `yaml:"cache_enabled"`
	CacheConfig  CacheConfig `yaml:"cache"`
}

// DefaultEngineConfig provides sensible defaults for production use
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
}

// HighPerformanceConfig is optimized for high-traffic scenarios
var HighPerformanceConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             30 * time.Minute,
		MaxEntries:      5000,
		CleanupInterval: 10 * time.Minute,
	},
}

// LowMemoryConfig is optimized for memory-constrained environments
var LowMemoryConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: 2 * time.Minute,
	},
}

// DisabledCacheConfig turns off caching entirely
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
}

// PresetConfig looks up a named preset: "default", "high-performance", "low-memory" or "disabled".
func PresetConfig(name string) (EngineConfig, error) {
	switch name {
	case "", "default":
		return DefaultEngineConfig, nil
	case "high-performance":
		return HighPerformanceConfig, nil
	case "low-memory":
		return LowMemoryConfig, nil
	case "disabled":
		return DisabledCacheConfig, nil
	default:
		return EngineConfig{}, fmt.Errorf("unknown engine preset %q", name)
	}
}

// NewEngineWithConfig creates a new recurrence engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	var cache *RecurrenceCache
	if config.CacheEnabled {
		cache = NewRecurrenceCache(config.CacheConfig)
	}

	return &Engine{
		cache:  cache,
		config: config,
	}
}
