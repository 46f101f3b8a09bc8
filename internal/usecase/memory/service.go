package memory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	domainrepo "github.com/reflectlabs/reflective-tutor/internal/domain/repositories"
)

// PreferencesUpdate carries a partial profile update; nil fields are left
// untouched.
type PreferencesUpdate struct {
	LearningPace              *entities.LearningPace     `json:"learning_pace,omitempty" validate:"omitempty,oneof=FAST STEADY DEEP"`
	PreferredLearningStyle    *entities.LearningStyle    `json:"preferred_learning_style,omitempty" validate:"omitempty,oneof=EXAMPLES_FIRST THEORY_FIRST MIXED"`
	PreferredExplanationStyle *entities.ExplanationStyle `json:"preferred_explanation_style,omitempty" validate:"omitempty,oneof=SHORT DETAILED STEP_BY_STEP ANALOGY"`
	ConfidenceLevel           *entities.ConfidenceLevel  `json:"confidence_level,omitempty" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Goals                     []entities.LearningGoal    `json:"goals,omitempty" validate:"omitempty,dive,oneof=PASS_EXAMS DEEP_MASTERY CAREER_CHANGE STAY_CURIOUS INTERVIEW_PREP"`
	OnboardingAnswers         map[string]interface{}     `json:"onboarding_answers,omitempty"`
}

// Service owns the per-student learning memory lifecycle.
type Service struct {
	memories domainrepo.LearningMemoryRepository
	logger   *zap.Logger
}

// NewService constructs a learning memory service.
func NewService(memories domainrepo.LearningMemoryRepository, logger *zap.Logger) *Service {
	return &Service{memories: memories, logger: logger}
}

// Get returns the student's profile, creating a default one on first access.
func (s *Service) Get(ctx context.Context, studentID uuid.UUID) (*entities.LearningMemory, error) {
	return s.memories.GetOrCreate(ctx, studentID)
}

// UpdatePreferences applies the declared preference fields atomically and
// returns the updated profile.
func (s *Service) UpdatePreferences(ctx context.Context, studentID uuid.UUID, update PreferencesUpdate) (*entities.LearningMemory, error) {
	mem, err := s.memories.UpdateAtomic(ctx, studentID, func(m *entities.LearningMemory) error {
		if update.LearningPace != nil {
			m.LearningPace = *update.LearningPace
		}
		if update.PreferredLearningStyle != nil {
			m.PreferredLearningStyle = *update.PreferredLearningStyle
		}
		if update.PreferredExplanationStyle != nil {
			m.PreferredExplanationStyle = *update.PreferredExplanationStyle
		}
		if update.ConfidenceLevel != nil {
			m.ConfidenceLevel = *update.ConfidenceLevel
		}
		if update.Goals != nil {
			m.Goals = datatypes.JSONSlice[entities.LearningGoal](update.Goals)
		}
		if update.OnboardingAnswers != nil {
			m.OnboardingAnswers = datatypes.JSONMap(update.OnboardingAnswers)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("learning preferences updated", zap.String("student_id", studentID.String()))
	return mem, nil
}

// RecordEvaluation folds one evaluation outcome into the profile. The
// read-modify-write runs under a row lock so concurrent evaluations never
// lose attempts.
func (s *Service) RecordEvaluation(ctx context.Context, studentID uuid.UUID, topic string, correct bool) (*entities.LearningMemory, error) {
	return s.memories.UpdateAtomic(ctx, studentID, func(m *entities.LearningMemory) error {
		m.RecordAttempt(topic, correct)
		return nil
	})
}
