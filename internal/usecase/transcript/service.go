package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/reflectlabs/reflective-tutor/errors"
	"github.com/reflectlabs/reflective-tutor/internal/domain/entities"
	domainrepo "github.com/reflectlabs/reflective-tutor/internal/domain/repositories"
	"github.com/reflectlabs/reflective-tutor/pkg/config"
)

// Provider names accepted on the webhook path.
const (
	ProviderDeepgram   = "deepgram"
	ProviderAssemblyAI = "assemblyai"
)

// TranscriptFetcher is the pull-provider API surface the service needs.
// Satisfied by the AssemblyAI SDK's TranscriptService.
type TranscriptFetcher interface {
	Get(ctx context.Context, transcriptID string) (aai.Transcript, error)
	SubmitFromURL(ctx context.Context, audioURL string, params *aai.TranscriptOptionalParams) (aai.Transcript, error)
}

// Service acquires and stores chapter transcripts.
type Service struct {
	transcripts domainrepo.TranscriptRepository
	fetcher     TranscriptFetcher
	cfg         *config.Config
	logger      *zap.Logger
}

// NewService constructs a transcript service.
func NewService(transcripts domainrepo.TranscriptRepository, fetcher TranscriptFetcher, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		transcripts: transcripts,
		fetcher:     fetcher,
		cfg:         cfg,
		logger:      logger,
	}
}

// RequestTranscription submits the chapter's media to the pull provider and
// records the pending job so the webhook can correlate the result.
func (s *Service) RequestTranscription(ctx context.Context, chapterID uuid.UUID, mediaURL string) error {
	if mediaURL == "" {
		return apperrors.ErrInvalidArgument("media_url is required")
	}
	if s.fetcher == nil {
		return apperrors.ErrUpstreamUnavailable("transcription", fmt.Errorf("provider not configured"))
	}

	webhookURL := fmt.Sprintf("%s/v1/webhooks/transcription/%s/%s",
		s.cfg.Server.PublicBaseURL, ProviderAssemblyAI, chapterID)

	params := &aai.TranscriptOptionalParams{
		WebhookURL: &webhookURL,
	}
	if s.cfg.AssemblyAI.WebhookSecret != "" {
		name := "X-Webhook-Secret"
		params.WebhookAuthHeaderName = &name
		params.WebhookAuthHeaderValue = &s.cfg.AssemblyAI.WebhookSecret
	}

	submitted, err := s.fetcher.SubmitFromURL(ctx, mediaURL, params)
	if err != nil {
		return apperrors.ErrUpstreamUnavailable("transcription", err)
	}
	if submitted.ID == nil || *submitted.ID == "" {
		return apperrors.ErrUpstreamUnavailable("transcription", fmt.Errorf("provider returned no job id"))
	}

	if err := s.transcripts.SetPendingJob(ctx, chapterID, *submitted.ID, ProviderAssemblyAI); err != nil {
		return err
	}

	s.logger.Info("transcription job submitted",
		zap.String("chapter_id", chapterID.String()),
		zap.String("job_id", *submitted.ID),
	)
	return nil
}

// HandleWebhook processes an inbound transcription callback for a chapter.
// Push providers deliver the full result in the body; the pull provider
// delivers a job id that must be fetched before normalization.
func (s *Service) HandleWebhook(ctx context.Context, provider string, chapterID uuid.UUID, payload []byte) error {
	switch provider {
	case ProviderDeepgram:
		return s.handlePush(ctx, chapterID, payload)
	case ProviderAssemblyAI:
		return s.handlePull(ctx, chapterID, payload)
	default:
		return apperrors.ErrInvalidArgument(fmt.Sprintf("unknown transcription provider %q", provider))
	}
}

func (s *Service) handlePush(ctx context.Context, chapterID uuid.UUID, payload []byte) error {
	segments := NormalizePush(payload)

	if err := s.transcripts.ReplaceSegments(ctx, chapterID, segments, "", ProviderDeepgram); err != nil {
		return err
	}

	s.logger.Info("transcript stored from push webhook",
		zap.String("chapter_id", chapterID.String()),
		zap.Int("segment_count", len(segments)),
	)
	return nil
}

// pullNotification is the pull provider's webhook body: a job reference, not
// the transcript itself.
type pullNotification struct {
	TranscriptID string `json:"transcript_id"`
	ID           string `json:"id"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

func (s *Service) handlePull(ctx context.Context, chapterID uuid.UUID, payload []byte) error {
	var note pullNotification
	if err := json.Unmarshal(payload, &note); err != nil {
		return apperrors.ErrInvalidPayload()
	}

	jobID := note.TranscriptID
	if jobID == "" {
		jobID = note.ID
	}
	if jobID == "" {
		return apperrors.ErrInvalidArgument("transcript id missing in webhook")
	}

	switch note.Status {
	case "error":
		// The provider failed the job. Clear the markers and report success so
		// the provider does not retry the callback forever.
		s.logger.Warn("transcription provider reported job error",
			zap.String("chapter_id", chapterID.String()),
			zap.String("job_id", jobID),
			zap.String("provider_error", note.Error),
		)
		return s.transcripts.ClearPendingJob(ctx, chapterID)

	case "completed":
		return s.storeCompletedPull(ctx, chapterID, jobID)

	default:
		// Intermediate statuses are informational only.
		return nil
	}
}

func (s *Service) storeCompletedPull(ctx context.Context, chapterID uuid.UUID, jobID string) error {
	if s.fetcher == nil {
		return apperrors.ErrUpstreamUnavailable("transcription", fmt.Errorf("provider not configured"))
	}

	var result aai.Transcript
	fetchFn := func() error {
		var err error
		result, err = s.fetcher.Get(ctx, jobID)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(fetchFn, backoff.WithContext(bo, ctx)); err != nil {
		return apperrors.ErrUpstreamUnavailable("transcription", err)
	}

	segments := utterancesToSegments(result)
	language := string(result.LanguageCode)

	if err := s.transcripts.ReplaceSegments(ctx, chapterID, segments, language, ProviderAssemblyAI); err != nil {
		return err
	}

	s.logger.Info("transcript stored from pull provider",
		zap.String("chapter_id", chapterID.String()),
		zap.String("job_id", jobID),
		zap.Int("segment_count", len(segments)),
	)
	return nil
}

// utterancesToSegments converts SDK utterances (millisecond timings) into
// canonical segments. Falls back to the flat text when no utterances exist.
func utterancesToSegments(t aai.Transcript) []entities.TranscriptSegment {
	segments := make([]entities.TranscriptSegment, 0, len(t.Utterances))
	for _, u := range t.Utterances {
		if u.Text == nil || *u.Text == "" {
			continue
		}
		seg := entities.TranscriptSegment{Text: *u.Text}
		if u.Start != nil {
			seg.StartSeconds = float64(*u.Start) / 1000.0
		}
		if u.End != nil && u.Start != nil && *u.End > *u.Start {
			seg.DurationSeconds = float64(*u.End-*u.Start) / 1000.0
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 && t.Text != nil && *t.Text != "" {
		segments = append(segments, entities.TranscriptSegment{Text: *t.Text})
	}
	return segments
}
