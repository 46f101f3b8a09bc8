package transcript

import (
	"encoding/json"
	"sort"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// The transcription providers deliver two known payload shapes. Each shape is
// modeled as an explicit variant with its own normalizer; nothing here probes
// fields dynamically. Empty or unparseable input normalizes to an empty
// sequence — downstream components treat that as "no transcript available".

// deepgramResult is the structured push payload with nested recognition
// alternatives.
type deepgramResult struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
				Paragraphs struct {
					Paragraphs []struct {
						Sentences []struct {
							Text  string  `json:"text"`
							Start float64 `json:"start"`
							End   float64 `json:"end"`
						} `json:"sentences"`
					} `json:"paragraphs"`
				} `json:"paragraphs"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// flatSegment is one entry of the flat list payload. The time field is either
// `offset` (ambiguous ms-or-s) or `start` (seconds); `duration` is optional.
type flatSegment struct {
	Offset   *float64 `json:"offset"`
	Start    *float64 `json:"start"`
	Duration float64  `json:"duration"`
	Text     string   `json:"text"`
}

// NormalizeDeepgramResult converts the structured result payload into the
// canonical segment sequence.
func NormalizeDeepgramResult(payload []byte) []entities.TranscriptSegment {
	var res deepgramResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return []entities.TranscriptSegment{}
	}

	segments := []entities.TranscriptSegment{}
	if len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return segments
	}

	alt := res.Results.Channels[0].Alternatives[0]
	for _, p := range alt.Paragraphs.Paragraphs {
		for _, s := range p.Sentences {
			if s.Text == "" {
				continue
			}
			seg := entities.TranscriptSegment{
				StartSeconds: clampNonNegative(s.Start),
				Text:         s.Text,
			}
			if s.End > s.Start {
				seg.DurationSeconds = s.End - s.Start
			}
			segments = append(segments, seg)
		}
	}

	// Some payloads omit sentence timings entirely; keep the full transcript
	// as a single segment rather than dropping it.
	if len(segments) == 0 && alt.Transcript != "" {
		segments = append(segments, entities.TranscriptSegment{Text: alt.Transcript})
	}

	sortSegments(segments)
	return segments
}

// NormalizeFlatSegments converts the flat list payload into the canonical
// segment sequence. An `offset` value of 1000 or more is interpreted as
// milliseconds, anything smaller as seconds already.
func NormalizeFlatSegments(payload []byte) []entities.TranscriptSegment {
	var items []flatSegment
	if err := json.Unmarshal(payload, &items); err != nil {
		return []entities.TranscriptSegment{}
	}

	segments := make([]entities.TranscriptSegment, 0, len(items))
	for _, it := range items {
		if it.Text == "" {
			continue
		}

		var start float64
		switch {
		case it.Start != nil:
			start = *it.Start
		case it.Offset != nil:
			start = *it.Offset
			if start >= 1000 {
				start = start / 1000.0
			}
		}

		segments = append(segments, entities.TranscriptSegment{
			StartSeconds:    clampNonNegative(start),
			DurationSeconds: clampNonNegative(it.Duration),
			Text:            it.Text,
		})
	}

	sortSegments(segments)
	return segments
}

// NormalizePush handles a push-provider webhook body: the structured result
// shape first, the flat list shape as the other known variant.
func NormalizePush(payload []byte) []entities.TranscriptSegment {
	if segments := NormalizeDeepgramResult(payload); len(segments) > 0 {
		return segments
	}
	return NormalizeFlatSegments(payload)
}

func sortSegments(segments []entities.TranscriptSegment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartSeconds < segments[j].StartSeconds
	})
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
