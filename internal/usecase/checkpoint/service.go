package checkpoint

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	domainrepo "github.com/reflectlabs/reflective-tutor/internal/domain/repositories"
)

// Mode selects the point-selection algorithm.
type Mode string

const (
	ModeRandom   Mode = "random"
	ModeSemantic Mode = "semantic"
)

// Service generates and persists reflection points for chapters.
type Service struct {
	transcripts domainrepo.TranscriptRepository
	points      domainrepo.ReflectionPointRepository
	extractor   *SemanticExtractor
	logger      *zap.Logger

	// rand.Rand is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService constructs a checkpoint service.
func NewService(transcripts domainrepo.TranscriptRepository, points domainrepo.ReflectionPointRepository, extractor *SemanticExtractor, logger *zap.Logger) *Service {
	return &Service{
		transcripts: transcripts,
		points:      points,
		extractor:   extractor,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Regenerate selects a fresh batch of reflection points for the chapter and
// persists it as a full replacement of any previous batch. Requires a stored
// non-empty transcript.
func (s *Service) Regenerate(ctx context.Context, chapterID uuid.UUID, mode Mode) ([]entities.ReflectionPoint, error) {
	t, err := s.transcripts.GetByChapterID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if !t.HasSegments() {
		return nil, apperrors.ErrTranscriptMissing(chapterID.String())
	}

	var candidates []Candidate
	switch mode {
	case ModeSemantic:
		if s.extractor == nil {
			return nil, apperrors.ErrUpstreamUnavailable("generation", nil)
		}
		candidates, err = s.extractor.Extract(ctx, t.Segments)
		if err != nil {
			return nil, apperrors.ErrUpstreamUnavailable("generation", err)
		}
	case ModeRandom, "":
		s.rngMu.Lock()
		candidates = RandomSpacing(t.DurationEstimate(), s.rng)
		s.rngMu.Unlock()
	default:
		return nil, apperrors.ErrInvalidArgument("mode must be random or semantic")
	}

	batch := make([]*entities.ReflectionPoint, 0, len(candidates))
	for _, c := range candidates {
		batch = append(batch, entities.NewReflectionPoint(chapterID, c.TimeSeconds, c.Topic))
	}

	if err := s.points.ReplaceForChapter(ctx, chapterID, batch); err != nil {
		// The replace runs in one transaction, so a failure here never leaves
		// the chapter silently without points; still worth a loud log line.
		s.logger.Error("reflection point replacement failed",
			zap.String("chapter_id", chapterID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("reflection points regenerated",
		zap.String("chapter_id", chapterID.String()),
		zap.String("mode", string(mode)),
		zap.Int("count", len(batch)),
	)

	out := make([]entities.ReflectionPoint, 0, len(batch))
	for _, p := range batch {
		out = append(out, *p)
	}
	return out, nil
}

// ListForChapter returns the persisted points ordered for playback.
func (s *Service) ListForChapter(ctx context.Context, chapterID uuid.UUID) ([]entities.ReflectionPoint, error) {
	return s.points.ListByChapter(ctx, chapterID)
}
