package memory

import (
	"fmt"
	"strings"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
)

// topicContextCap bounds how many topics from each list reach the prompt.
const topicContextCap = 5

// PersonalizationContext renders the profile as a compact prompt block. Empty
// lists are omitted so the model is not steered by absent data.
func PersonalizationContext(m *entities.LearningMemory) string {
	if m == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Student profile:\n")
	sb.WriteString(fmt.Sprintf("- Pace: %s\n", m.LearningPace))
	sb.WriteString(fmt.Sprintf("- Learning style: %s\n", m.PreferredLearningStyle))
	sb.WriteString(fmt.Sprintf("- Explanation style: %s\n", m.PreferredExplanationStyle))
	sb.WriteString(fmt.Sprintf("- Confidence: %s\n", m.ConfidenceLevel))

	if len(m.Goals) > 0 {
		goals := make([]string, 0, len(m.Goals))
		for _, g := range m.Goals {
			goals = append(goals, string(g))
		}
		sb.WriteString(fmt.Sprintf("- Goals: %s\n", strings.Join(goals, ", ")))
	}
	if m.TotalAttempts > 0 {
		sb.WriteString(fmt.Sprintf("- Accuracy so far: %.0f%% over %d attempts\n", m.AccuracyRate*100, m.TotalAttempts))
	}
	if len(m.WeakTopics) > 0 {
		sb.WriteString(fmt.Sprintf("- Struggling with: %s\n", strings.Join(capTopics(m.WeakTopics), ", ")))
	}
	if len(m.StrengthTopics) > 0 {
		sb.WriteString(fmt.Sprintf("- Strong on: %s\n", strings.Join(capTopics(m.StrengthTopics), ", ")))
	}

	return strings.TrimSpace(sb.String())
}

func capTopics(list []string) []string {
	if len(list) > topicContextCap {
		list = list[:topicContextCap]
	}
	return list
}
