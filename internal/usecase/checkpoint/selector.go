package checkpoint

import (
	"math"
	"math/rand"
	"sort"
)

const (
	// MinDurationSeconds is the shortest video that gets reflection points.
	MinDurationSeconds = 60

	// maxPlacementAttempts bounds the whole rejection-sampling loop so point
	// selection never blocks; whatever subset was accepted is kept.
	maxPlacementAttempts = 20

	// PlaceholderTopic labels randomly spaced points that carry no semantic
	// topic.
	PlaceholderTopic = "Checkpoint"
)

// Candidate is a proposed reflection point before persistence.
type Candidate struct {
	TimeSeconds float64
	Topic       string
}

// RandomSpacing picks 4 or 5 timestamps uniformly from the middle 80% of the
// video, rejecting candidates closer than duration/20 to an accepted point.
// Videos under MinDurationSeconds produce no points at all.
func RandomSpacing(durationSeconds float64, rng *rand.Rand) []Candidate {
	if durationSeconds < MinDurationSeconds {
		return []Candidate{}
	}

	count := 4 + rng.Intn(2)
	lo := 0.10 * durationSeconds
	hi := 0.90 * durationSeconds
	minGap := durationSeconds / 20

	accepted := make([]float64, 0, count)
	for attempts := 0; attempts < maxPlacementAttempts && len(accepted) < count; attempts++ {
		candidate := lo + rng.Float64()*(hi-lo)

		collides := false
		for _, a := range accepted {
			if math.Abs(a-candidate) < minGap {
				collides = true
				break
			}
		}
		if !collides {
			accepted = append(accepted, candidate)
		}
	}

	sort.Float64s(accepted)

	out := make([]Candidate, 0, len(accepted))
	for _, t := range accepted {
		out = append(out, Candidate{TimeSeconds: t, Topic: PlaceholderTopic})
	}
	return out
}
