package broadphase

import (
	"sync"

	"github.com/ridgeline-phys/collide/bv"
)

// task splits [0, dataSize) into workersCount roughly-equal chunks and runs
// fn over each chunk on its own goroutine, blocking until all finish. Kept
// near-verbatim from the teacher's pipeline.go task() helper — same
// WaitGroup-based fixed-worker-count fan-out, same chunking arithmetic —
// since the shape of "parallelize a flat batch update" doesn't change just
// because the batch is now broad-phase proxies instead of rigid bodies.
func task(workersCount int, dataSize int, fn func(start, end int)) {
	if dataSize == 0 {
		return
	}
	if workersCount > dataSize {
		workersCount = dataSize
	}
	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

// BatchUpdate recomputes and applies every id's AABB in parallel via task(),
// then performs the (inherently sequential) DBVT refit/apply pass. Used by a
// world stepping many dirty objects at once; compute is the caller-supplied
// AABB recomputation (e.g. re-deriving a shape's world AABB from its new
// pose), kept out of this package since broadphase doesn't know about poses
// or shapes.
func (p *Phase) BatchUpdate(ids []ObjectId, workers int, compute func(ObjectId) (bv.AABB, bool)) {
	type result struct {
		aabb bv.AABB
		ok   bool
	}
	results := make([]result, len(ids))
	task(workers, len(ids), func(start, end int) {
		for i := start; i < end; i++ {
			aabb, ok := compute(ids[i])
			results[i] = result{aabb, ok}
		}
	})
	for i, id := range ids {
		if results[i].ok {
			p.SetAABB(id, results[i].aabb)
		}
	}
}
