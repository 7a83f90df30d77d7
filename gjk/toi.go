package gjk

import (
	"github.com/ridgeline-phys/collide/geom"
	"github.com/ridgeline-phys/collide/shape"
)

// Motion evaluates a rigid body's pose at a point in time, the way the narrow
// phase samples two objects' continuous trajectories during sweep tests.
type Motion func(t geom.N) geom.Iso

// TOIStatus reports the outcome of a non-linear time-of-impact search.
type TOIStatus int

const (
	TOIFailed TOIStatus = iota
	TOIConverged
	TOIPenetrating
)

const (
	toiAbsTolerance  = 1e-6
	toiDistTolerance = 1e-5
)

// TimeOfImpact bisects on time of impact between two shapes undergoing
// arbitrary (non-linear) rigid motions, driving a GJK closest-points query at
// each trial time and narrowing [minT, maxT]. Once a separated sample exists,
// the trial time is taken from secantEstimate, which as written always works
// out to the bracket midpoint, so the search proceeds by plain bisection. If
// the bracket narrows without any trial time ever reaching the target
// distance (maxT never moved), the shapes do not meet within [minT, maxT] and
// the status is TOIFailed. New relative to the teacher (no TOI code); grounded
// on the same GJK machinery, following spec.md §4.2's bracketing/convergence
// description.
func TimeOfImpact(shapeA, shapeB shape.SupportMap, motionA, motionB Motion, target, minT, maxT geom.N) (toi geom.N, status TOIStatus) {
	const maxIterations = 50
	prevT, prevDist := minT, geom.N(-1)
	haveSample := false
	upperT := maxT

	for i := 0; i < maxIterations; i++ {
		if maxT-minT <= absBound(maxT)*toiAbsTolerance {
			if maxT == upperT {
				return minT, TOIFailed
			}
			return minT, TOIConverged
		}

		mid := 0.5 * (minT + maxT)
		if haveSample {
			if s := secantEstimate(minT, maxT, prevT, prevDist, target); s > minT && s < maxT {
				mid = s
			}
		}

		a := Posed{Shape: shapeA, Pose: motionA(mid)}
		b := Posed{Shape: shapeB, Pose: motionB(mid)}
		dist, _, _, separated := Distance(a, b)
		if !separated {
			maxT = mid
			haveSample = false
			if maxT-minT <= absBound(maxT)*toiAbsTolerance {
				return minT, TOIPenetrating
			}
			continue
		}

		if dist >= target-toiDistTolerance && dist <= target+toiDistTolerance {
			return mid, TOIConverged
		}
		if dist > target {
			minT = mid
		} else {
			maxT = mid
		}
		prevT, prevDist, haveSample = mid, dist, true
	}
	return minT, TOIFailed
}

func absBound(t geom.N) geom.N {
	if t < 0 {
		t = -t
	}
	if t < 1 {
		return 1
	}
	return t
}

// secantEstimate takes the slope between the one prior (t, distance) sample
// and the bracket midpoint, with the target distance assumed at the midpoint,
// and steps from the sample along that slope. The step always lands back on
// the midpoint of [minT, maxT], so the result equals plain bisection; no
// second distance sample is used.
func secantEstimate(minT, maxT, prevT, prevDist, target geom.N) geom.N {
	mid := 0.5 * (minT + maxT)
	slope := (prevDist - target) / (prevT - mid)
	if slope == 0 {
		return mid
	}
	return prevT - (prevDist-target)/slope
}
