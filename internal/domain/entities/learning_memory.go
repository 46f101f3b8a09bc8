package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LearningPace controls how quickly new material is introduced.
type LearningPace string

const (
	PaceFast   LearningPace = "FAST"
	PaceSteady LearningPace = "STEADY"
	PaceDeep   LearningPace = "DEEP"
)

// LearningStyle orders examples vs. theory in explanations.
type LearningStyle string

const (
	StyleExamplesFirst LearningStyle = "EXAMPLES_FIRST"
	StyleTheoryFirst   LearningStyle = "THEORY_FIRST"
	StyleMixed         LearningStyle = "MIXED"
)

// ExplanationStyle controls how answers and feedback are phrased.
type ExplanationStyle string

const (
	ExplainShort      ExplanationStyle = "SHORT"
	ExplainDetailed   ExplanationStyle = "DETAILED"
	ExplainStepByStep ExplanationStyle = "STEP_BY_STEP"
	ExplainAnalogy    ExplanationStyle = "ANALOGY"
)

// ConfidenceLevel is the student's self-assessed or inferred level.
type ConfidenceLevel string

const (
	ConfidenceBeginner     ConfidenceLevel = "BEGINNER"
	ConfidenceIntermediate ConfidenceLevel = "INTERMEDIATE"
	ConfidenceAdvanced     ConfidenceLevel = "ADVANCED"
)

// LearningGoal is one onboarding-declared objective.
type LearningGoal string

const (
	GoalPassExams     LearningGoal = "PASS_EXAMS"
	GoalDeepMastery   LearningGoal = "DEEP_MASTERY"
	GoalCareerChange  LearningGoal = "CAREER_CHANGE"
	GoalStayCurious   LearningGoal = "STAY_CURIOUS"
	GoalInterviewPrep LearningGoal = "INTERVIEW_PREP"
)

// TopicListCap bounds the weak/strength topic lists.
const TopicListCap = 20

// LearningMemory is the per-student personalization profile. One row per
// student, created lazily on first access and mutated after every evaluation.
type LearningMemory struct {
	StudentID uuid.UUID `json:"student_id" gorm:"type:uuid;primary_key"`

	LearningPace              LearningPace     `json:"learning_pace" gorm:"type:varchar(20);default:'STEADY'"`
	PreferredLearningStyle    LearningStyle    `json:"preferred_learning_style" gorm:"type:varchar(30);default:'MIXED'"`
	PreferredExplanationStyle ExplanationStyle `json:"preferred_explanation_style" gorm:"type:varchar(30);default:'DETAILED'"`
	ConfidenceLevel           ConfidenceLevel  `json:"confidence_level" gorm:"type:varchar(20);default:'BEGINNER'"`

	Goals          datatypes.JSONSlice[LearningGoal] `json:"goals" gorm:"type:jsonb"`
	WeakTopics     datatypes.JSONSlice[string]       `json:"weak_topics" gorm:"type:jsonb"`
	StrengthTopics datatypes.JSONSlice[string]       `json:"strength_topics" gorm:"type:jsonb"`

	AccuracyRate    float64 `json:"accuracy_rate" gorm:"default:0"`
	TotalAttempts   int     `json:"total_attempts" gorm:"default:0"`
	CorrectAttempts int     `json:"correct_attempts" gorm:"default:0"`

	OnboardingAnswers datatypes.JSONMap `json:"onboarding_answers,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (LearningMemory) TableName() string {
	return "learning_memories"
}

// NewLearningMemory creates a fresh profile with neutral defaults.
func NewLearningMemory(studentID uuid.UUID) *LearningMemory {
	return &LearningMemory{
		StudentID:                 studentID,
		LearningPace:              PaceSteady,
		PreferredLearningStyle:    StyleMixed,
		PreferredExplanationStyle: ExplainDetailed,
		ConfidenceLevel:           ConfidenceBeginner,
		Goals:                     datatypes.JSONSlice[LearningGoal]{},
		WeakTopics:                datatypes.JSONSlice[string]{},
		StrengthTopics:            datatypes.JSONSlice[string]{},
	}
}

// RecordAttempt applies one evaluation outcome: counters, accuracy and the
// topic lists. The topic moves to the front of the matching list; any prior
// occurrence is removed first so it appears exactly once.
func (m *LearningMemory) RecordAttempt(topic string, correct bool) {
	m.TotalAttempts++
	if correct {
		m.CorrectAttempts++
	}
	if m.CorrectAttempts > m.TotalAttempts {
		m.CorrectAttempts = m.TotalAttempts
	}
	m.recomputeAccuracy()

	if topic == "" {
		return
	}
	if correct {
		m.StrengthTopics = dedupPrepend(m.StrengthTopics, topic)
	} else {
		m.WeakTopics = dedupPrepend(m.WeakTopics, topic)
	}
}

// HasWeakTopic reports whether the topic is currently in the weak list.
func (m *LearningMemory) HasWeakTopic(topic string) bool {
	for _, t := range m.WeakTopics {
		if t == topic {
			return true
		}
	}
	return false
}

func (m *LearningMemory) recomputeAccuracy() {
	if m.TotalAttempts == 0 {
		m.AccuracyRate = 0
		return
	}
	m.AccuracyRate = float64(m.CorrectAttempts) / float64(m.TotalAttempts)
}

// dedupPrepend inserts topic at the front, removing any existing occurrence,
// and caps the list at TopicListCap entries (most-recent-first).
func dedupPrepend(list datatypes.JSONSlice[string], topic string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(list)+1)
	out = append(out, topic)
	for _, t := range list {
		if t == topic {
			continue
		}
		out = append(out, t)
	}
	if len(out) > TopicListCap {
		out = out[:TopicListCap]
	}
	return out
}
