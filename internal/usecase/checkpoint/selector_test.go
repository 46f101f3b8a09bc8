package checkpoint

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomSpacing_ShortVideoProducesNothing(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, d := range []float64{0, 10, 59.9} {
		if points := RandomSpacing(d, rng); len(points) != 0 {
			t.Errorf("duration %.1f: expected zero points, got %d", d, len(points))
		}
	}
}

func TestRandomSpacing_Properties(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		duration := 500.0
		points := RandomSpacing(duration, rng)

		if len(points) == 0 || len(points) > 5 {
			t.Fatalf("seed %d: unexpected point count %d", seed, len(points))
		}

		minGap := duration / 20
		lo, hi := 0.10*duration, 0.90*duration
		for i, p := range points {
			if p.TimeSeconds < lo || p.TimeSeconds > hi {
				t.Errorf("seed %d: point %f outside [%f, %f]", seed, p.TimeSeconds, lo, hi)
			}
			if p.Topic != PlaceholderTopic {
				t.Errorf("seed %d: missing placeholder topic", seed)
			}
			if i > 0 {
				if points[i].TimeSeconds < points[i-1].TimeSeconds {
					t.Errorf("seed %d: points not sorted", seed)
				}
				if gap := math.Abs(points[i].TimeSeconds - points[i-1].TimeSeconds); gap < minGap {
					t.Errorf("seed %d: gap %f below minimum %f", seed, gap, minGap)
				}
			}
		}
	}
}

func TestRandomSpacing_ScenarioTenSegmentsOver500s(t *testing.T) {
	// Ten segments spanning 0-500s give an estimated duration of 500s: 4 or 5
	// points, all within [50, 450], pairwise gaps of at least 25s.
	rng := rand.New(rand.NewSource(42))
	points := RandomSpacing(500, rng)

	if len(points) != 4 && len(points) != 5 {
		t.Fatalf("expected 4 or 5 points, got %d", len(points))
	}
	for i, p := range points {
		if p.TimeSeconds < 50 || p.TimeSeconds > 450 {
			t.Errorf("point %f outside [50, 450]", p.TimeSeconds)
		}
		if i > 0 {
			if gap := p.TimeSeconds - points[i-1].TimeSeconds; gap < 25 {
				t.Errorf("gap %f below 25s", gap)
			}
		}
	}
}
