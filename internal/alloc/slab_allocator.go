// Package alloc provides a generic, tiered slab allocator for reducing
// allocation overhead in the zone-file parsing hot path: window buffers
// (internal/zone/buffer.go) and RDATA ring slots (internal/zone/cache.go)
// both draw from pools built with this type instead of calling make() on
// every refill/record.
package alloc

import (
	"sync"
	"sync/atomic"
)

// SlabAllocator is a generic, lock-free-on-the-fast-path slab allocator.
// It uses pre-sized pools for different allocation sizes to minimize GC
// pressure under a hot get/put cycle.
type SlabAllocator[T any] struct {
	pools []*poolTier[T]
	stats atomic.Value // *AllocatorStats
}

// poolTier represents a single size tier in the slab allocator.
type poolTier[T any] struct {
	capacity int
	pool     sync.Pool
}

// AllocatorStats tracks allocation statistics.
type AllocatorStats struct {
	Allocations   int64
	Reuses        int64
	PoolHits      int64
	PoolMisses    int64
	TotalCapacity int64
}

// SlabTierConfig defines the configuration for a single slab tier.
type SlabTierConfig struct {
	Capacity int
	Weight   float64 // relative weight, informational only
}

// RDATATierConfigs sizes tiers to the RDATA octet-length distribution
// a zone file actually produces: most records (A/AAAA/NS/MX/SRV) fit in a
// few dozen bytes, TXT/SOA/generic TYPEn records run longer, and the
// largest tier covers the full RFC 3597 65535-octet ceiling so oversized
// records never fall through to a bare make().
var RDATATierConfigs = []SlabTierConfig{
	{Capacity: 16, Weight: 0.35},    // A, short names
	{Capacity: 64, Weight: 0.30},    // AAAA, MX, SRV, PTR
	{Capacity: 256, Weight: 0.20},   // SOA, HINFO, short TXT
	{Capacity: 4096, Weight: 0.10},  // multi-string TXT, long generic RDATA
	{Capacity: 65535, Weight: 0.05}, // RFC 3597 ceiling
}

// WindowBufferTierConfigs sizes tiers for the byte-stream source's sliding
// window (spec §4.1): always a multiple of the structural indexer's stride
// so a refill never splits a SIMD lane mid-block.
var WindowBufferTierConfigs = []SlabTierConfig{
	{Capacity: 64 * 1024, Weight: 1.0},
	{Capacity: 256 * 1024, Weight: 0.0},
}

// NewSlabAllocator creates a new slab allocator with the given tier
// configurations.
func NewSlabAllocator[T any](configs []SlabTierConfig) *SlabAllocator[T] {
	sa := &SlabAllocator[T]{
		pools: make([]*poolTier[T], len(configs)),
	}

	for i, config := range configs {
		capacity := config.Capacity
		sa.pools[i] = &poolTier[T]{
			capacity: capacity,
			pool: sync.Pool{
				New: func() any {
					return make([]T, 0, capacity)
				},
			},
		}
	}

	sa.stats.Store(&AllocatorStats{})
	return sa
}

// NewRDATAAllocator creates a slab allocator tiered for RDATA buffer sizes.
func NewRDATAAllocator[T any]() *SlabAllocator[T] {
	return NewSlabAllocator[T](RDATATierConfigs)
}

// NewSlabAllocatorWithDefaults creates an allocator using RDATATierConfigs,
// the tiering used throughout the zone package unless a caller overrides it.
func NewSlabAllocatorWithDefaults[T any]() *SlabAllocator[T] {
	return NewSlabAllocator[T](RDATATierConfigs)
}

// NewWindowAllocator creates a slab allocator tiered for sliding-window
// byte-stream buffers.
func NewWindowAllocator[T any]() *SlabAllocator[T] {
	return NewSlabAllocator[T](WindowBufferTierConfigs)
}

// Get returns a slice with at least the requested capacity. The returned
// slice has length 0 and capacity >= capacity.
func (sa *SlabAllocator[T]) Get(capacity int) []T {
	if capacity <= 0 {
		return make([]T, 0)
	}

	for _, tier := range sa.pools {
		if tier.capacity >= capacity {
			return sa.getFromPool(tier)
		}
	}

	sa.updateStats(func(stats *AllocatorStats) {
		stats.Allocations++
		stats.PoolMisses++
		stats.TotalCapacity += int64(capacity)
	})

	return make([]T, 0, capacity)
}

// Put returns a slice to the appropriate pool for reuse. Slices whose
// capacity doesn't match a tier exactly are discarded.
func (sa *SlabAllocator[T]) Put(slice []T) {
	if slice == nil || cap(slice) == 0 {
		return
	}

	capacity := cap(slice)
	for _, tier := range sa.pools {
		if tier.capacity == capacity {
			slice = slice[:0]
			tier.pool.Put(slice)
			sa.updateStats(func(stats *AllocatorStats) {
				stats.Reuses++
				stats.PoolHits++
			})
			return
		}
	}

	sa.updateStats(func(stats *AllocatorStats) {
		stats.PoolMisses++
	})
}

// GetStats returns current allocation statistics.
func (sa *SlabAllocator[T]) GetStats() AllocatorStats {
	return *sa.stats.Load().(*AllocatorStats)
}

// ResetStats resets all statistics to zero.
func (sa *SlabAllocator[T]) ResetStats() {
	sa.stats.Store(&AllocatorStats{})
}

func (sa *SlabAllocator[T]) getFromPool(tier *poolTier[T]) []T {
	if slice := tier.pool.Get(); slice != nil {
		sa.updateStats(func(stats *AllocatorStats) {
			stats.Reuses++
			stats.PoolHits++
			stats.TotalCapacity += int64(tier.capacity)
		})
		return slice.([]T)
	}

	sa.updateStats(func(stats *AllocatorStats) {
		stats.Allocations++
		stats.PoolMisses++
		stats.TotalCapacity += int64(tier.capacity)
	})

	return make([]T, 0, tier.capacity)
}

func (sa *SlabAllocator[T]) updateStats(update func(*AllocatorStats)) {
	current := sa.stats.Load().(*AllocatorStats)
	newStats := *current
	update(&newStats)
	sa.stats.Store(&newStats)
}

// GetWithCapacity returns a slice with room for existingLen+additionalCapacity.
func (sa *SlabAllocator[T]) GetWithCapacity(existingLen, additionalCapacity int) []T {
	return sa.Get(existingLen + additionalCapacity)
}

// GrowSlice grows slice to accommodate additionalCapacity more elements,
// preferring slab reuse over a raw append-triggered allocation.
func (sa *SlabAllocator[T]) GrowSlice(slice []T, additionalCapacity int) []T {
	if additionalCapacity <= 0 {
		return slice
	}

	currentLen := len(slice)
	currentCap := cap(slice)
	requiredCap := currentLen + additionalCapacity

	if currentCap >= requiredCap {
		return slice
	}

	newSlice := sa.GetWithCapacity(currentLen, additionalCapacity)
	newSlice = append(newSlice, slice...)
	sa.Put(slice)
	return newSlice
}
