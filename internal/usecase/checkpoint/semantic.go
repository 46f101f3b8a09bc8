package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	"github.com/reflectlabs/reflective-tutor/pkg/llm"
)

const (
	// transcriptCharBudget bounds how much rendered transcript is sent for
	// topic extraction.
	transcriptCharBudget = 12000

	topicMaxLen = 200
)

// SemanticExtractor asks the generation model for topic-anchored checkpoints.
type SemanticExtractor struct {
	completer llm.Completer
	model     string
}

// NewSemanticExtractor creates a topic extractor bound to one model.
func NewSemanticExtractor(completer llm.Completer, model string) *SemanticExtractor {
	return &SemanticExtractor{completer: completer, model: model}
}

// Extract submits the rendered transcript and parses the returned checkpoint
// list. A transport failure is returned as an error; a malformed or empty
// model response yields an empty list with no error.
func (e *SemanticExtractor) Extract(ctx context.Context, segments []entities.TranscriptSegment) ([]Candidate, error) {
	rendered := RenderTranscript(segments, transcriptCharBudget)
	if rendered == "" {
		return []Candidate{}, nil
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: semanticInstruction},
		{Role: llm.RoleUser, Content: rendered},
	}

	content, err := e.completer.CompleteJSON(ctx, e.model, messages, 1024, 0.3)
	if err != nil {
		return nil, err
	}

	return parseSemanticResponse(content), nil
}

const semanticInstruction = `You are analyzing a timestamped video transcript. ` +
	`Identify between 3 and 6 moments where a learner should pause and reflect, ` +
	`each anchored to a real timestamp from the transcript. ` +
	`Respond with JSON: {"points": [{"time": <seconds>, "topic": "<short topic>"}]}. ` +
	`Times must be numbers taken from the transcript timestamps.`

// RenderTranscript formats segments as "[<rounded start>s] <text>" lines and
// truncates the result to the character budget.
func RenderTranscript(segments []entities.TranscriptSegment, budget int) string {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		line := fmt.Sprintf("[%ds] %s\n", int(math.Round(seg.StartSeconds)), seg.Text)
		if sb.Len()+len(line) > budget {
			break
		}
		sb.WriteString(line)
	}
	return strings.TrimSpace(sb.String())
}

// rawPoint accepts whatever the model put in each entry; types are checked
// afterwards so a single bad entry is discarded rather than failing the batch.
type rawPoint struct {
	Time  interface{} `json:"time"`
	Topic interface{} `json:"topic"`
}

// parseSemanticResponse accepts a bare array or a wrapper object keyed by
// "points" or "topics". Anything else parses to an empty list.
func parseSemanticResponse(content string) []Candidate {
	content = llm.ExtractJSON(content)

	var raw []rawPoint
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
			return []Candidate{}
		}
		arr, ok := wrapper["points"]
		if !ok {
			arr, ok = wrapper["topics"]
		}
		if !ok {
			return []Candidate{}
		}
		if err := json.Unmarshal(arr, &raw); err != nil {
			return []Candidate{}
		}
	}

	out := make([]Candidate, 0, len(raw))
	for _, p := range raw {
		timeVal, ok := p.Time.(float64)
		if !ok {
			continue
		}
		topic, ok := p.Topic.(string)
		if !ok || topic == "" {
			continue
		}
		if timeVal < 0 {
			timeVal = 0
		}
		if len(topic) > topicMaxLen {
			topic = topic[:topicMaxLen]
		}
		out = append(out, Candidate{
			TimeSeconds: math.Round(timeVal),
			Topic:       topic,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TimeSeconds < out[j].TimeSeconds })
	return out
}
