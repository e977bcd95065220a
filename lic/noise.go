package lic

import (
	"math/rand/v2"

	"github.com/gogpu/gg/cache"
	"gonum.org/v1/gonum/stat/distuv"
)

type noiseKey struct {
	W, H int
	Seed uint64
}

func hashNoiseKey(k noiseKey) uint64 {
	h := k.Seed*0x9e3779b97f4a7c15 ^ uint64(k.W)<<32 ^ uint64(k.H)
	h ^= h >> 29
	return h * 0xbf58476d1ce4e5b9
}

// NoiseCache holds white noise textures keyed on size and seed
type NoiseCache struct {
	cache *cache.ShardedCache[noiseKey, []float64]
}

func NewNoiseCache(capacity int) *NoiseCache {
	return &NoiseCache{cache: cache.NewSharded[noiseKey, []float64](capacity, hashNoiseKey)}
}

// Get returns W*H uniform samples in [0,1), the same slice for repeated calls, which callers must not modify
func (nc *NoiseCache) Get(w, h int, seed uint64) []float64 {
	return nc.cache.GetOrCreate(noiseKey{W: w, H: h, Seed: seed}, func() []float64 {
		return WhiteNoise(w, h, seed)
	})
}

func (nc *NoiseCache) Len() int { return nc.cache.Len() }

// WhiteNoise draws W*H values from a seeded uniform distribution
func WhiteNoise(w, h int, seed uint64) (noise []float64) {
	var (
		dist = distuv.Uniform{Min: 0, Max: 1, Src: rand.NewPCG(seed, seed^0x5851f42d4c957f2d)}
	)
	noise = make([]float64, w*h)
	for i := range noise {
		noise[i] = dist.Rand()
	}
	return
}
