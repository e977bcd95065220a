package integrate

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/gogpu/gg/cache"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/utils"
)

/*
Request describes one characteristic curve computation. It is comparable and
is used directly as the cache key, so two equal requests always produce the
same curve for a given flow.
*/
type Request struct {
	Type            CurveType
	Origin          r2.Vec // seed point, start of the seed segment for time lines
	End             r2.Vec // end of the seed segment for time lines
	NumSamples      int    // seeds on the segment for time lines
	StartFrame      int
	FixedStartFrame bool
	Params          Params
}

// Resolve pins the start frame, using the caller's current frame unless the request fixes it
func (r Request) Resolve(currentFrame int) Request {
	if !r.FixedStartFrame {
		r.StartFrame = currentFrame
		r.FixedStartFrame = true
	}
	return r
}

type Result struct {
	Curve    Curve           // streamline, path line and streak line
	TimeLine *TimeLineResult // time line only
}

// Compute is the pure recompute step: no state is read beyond the flow and the request
func Compute(f Flow, r Request) (res Result) {
	var (
		t0 = float64(r.StartFrame)
	)
	switch r.Type {
	case StreamLine:
		res.Curve = ComputeStreamline(f, t0, r.Origin, r.Params)
	case PathLine:
		res.Curve = ComputePathLine(f, t0, r.Origin, r.Params)
	case StreakLine:
		res.Curve = ComputeStreakLine(f, t0, r.Origin, r.Params)
	case TimeLine:
		res.TimeLine = ComputeTimeLine(f, t0, r.Origin, r.End, r.NumSamples, r.Params)
	}
	return
}

// CurveCache memoizes Compute for one flow. It is owned by the caller and safe for concurrent use.
type CurveCache struct {
	flow  Flow
	cache *cache.ShardedCache[Request, Result]
}

func NewCurveCache(f Flow, capacity int) *CurveCache {
	return &CurveCache{
		flow:  f,
		cache: cache.NewSharded[Request, Result](capacity, hashRequest),
	}
}

// Get computes the curve on a miss, requests should be resolved before the call
func (cc *CurveCache) Get(r Request) Result {
	if res, ok := cc.cache.Get(r); ok {
		utils.Logger().Debug("curve cache hit", "type", r.Type.String())
		return res
	}
	return cc.cache.GetOrCreate(r, func() Result {
		return Compute(cc.flow, r)
	})
}

func (cc *CurveCache) Len() int { return cc.cache.Len() }

// Invalidate drops every cached curve, for use when the flow data changes in place
func (cc *CurveCache) Invalidate() { cc.cache.Clear() }

func hashRequest(r Request) uint64 {
	var (
		h   = fnv.New64a()
		buf [8]byte
	)
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	putF := func(f float64) { put(math.Float64bits(f)) }
	put(uint64(r.Type))
	putF(r.Origin.X)
	putF(r.Origin.Y)
	putF(r.End.X)
	putF(r.End.Y)
	put(uint64(r.NumSamples))
	put(uint64(r.StartFrame))
	putF(r.Params.StepLength)
	put(uint64(r.Params.MaxSteps))
	putF(r.Params.FrameStep)
	if r.FixedStartFrame {
		put(1)
	}
	if r.Params.Normalized {
		put(2)
	}
	return h.Sum64()
}
