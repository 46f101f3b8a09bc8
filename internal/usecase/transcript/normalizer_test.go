package transcript

import (
	"testing"
)

func TestNormalizeDeepgramResult(t *testing.T) {
	payload := []byte(`{
		"results": {
			"channels": [{
				"alternatives": [{
					"transcript": "full text",
					"paragraphs": {
						"paragraphs": [{
							"sentences": [
								{"text": "First sentence.", "start": 0.5, "end": 3.2},
								{"text": "Second sentence.", "start": 3.2, "end": 7.0}
							]
						}]
					}
				}]
			}]
		}
	}`)

	segments := NormalizeDeepgramResult(payload)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "First sentence." {
		t.Errorf("unexpected first segment text %q", segments[0].Text)
	}
	if segments[0].StartSeconds != 0.5 {
		t.Errorf("unexpected start %f", segments[0].StartSeconds)
	}
	if got := segments[1].DurationSeconds; got < 3.79 || got > 3.81 {
		t.Errorf("unexpected duration %f", got)
	}
}

func TestNormalizeDeepgramResult_NoTimings(t *testing.T) {
	payload := []byte(`{"results":{"channels":[{"alternatives":[{"transcript":"only text"}]}]}}`)

	segments := NormalizeDeepgramResult(payload)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "only text" || segments[0].StartSeconds != 0 {
		t.Errorf("unexpected segment %+v", segments[0])
	}
}

func TestNormalizeFlatSegments_OffsetHeuristic(t *testing.T) {
	payload := []byte(`[
		{"offset": 1500, "duration": 2, "text": "millis"},
		{"offset": 12.5, "text": "seconds"},
		{"start": 40, "duration": 3, "text": "explicit start"},
		{"offset": 999, "text": ""}
	]`)

	segments := NormalizeFlatSegments(payload)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments (empty text dropped), got %d", len(segments))
	}
	if segments[0].StartSeconds != 1.5 {
		t.Errorf("offset >= 1000 should be treated as ms, got start %f", segments[0].StartSeconds)
	}
	if segments[1].StartSeconds != 12.5 {
		t.Errorf("offset < 1000 should be seconds, got %f", segments[1].StartSeconds)
	}
	if segments[2].StartSeconds != 40 {
		t.Errorf("explicit start should pass through, got %f", segments[2].StartSeconds)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].StartSeconds < segments[i-1].StartSeconds {
			t.Fatalf("segments not sorted at index %d", i)
		}
	}
}

func TestNormalize_EmptyAndGarbage(t *testing.T) {
	cases := map[string][]byte{
		"empty":       []byte(""),
		"garbage":     []byte("not json at all"),
		"empty array": []byte("[]"),
		"wrong shape": []byte(`{"foo": "bar"}`),
	}

	for name, payload := range cases {
		if got := NormalizePush(payload); len(got) != 0 {
			t.Errorf("%s: expected empty sequence, got %d segments", name, len(got))
		}
	}
}
