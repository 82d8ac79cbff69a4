package command

import (
	"context"
	"fmt"

	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
	"github.com/romariotrain/transcription-platform/internal/transcription/repository"
	"github.com/romariotrain/transcription-platform/internal/transcription/service"
)

// EventDispatcher publishes recorded domain events after persistence.
type EventDispatcher interface {
	DispatchAll(ctx context.Context, events []domain.DomainEvent)
}

// CreateResult is returned by the create commands.
type CreateResult struct {
	ID            domain.TranscriptionID
	EstimatedCost domain.Money
}

// ProcessResult is returned by the Process command.
type ProcessResult struct {
	ID        domain.TranscriptionID
	WordCount int
	Cost      domain.Money
}

// CreateHandler services the two creation commands. It is the only place a
// new aggregate is constructed.
type CreateHandler struct {
	repo       repository.TranscriptionRepository
	dispatcher EventDispatcher
	downloader service.VideoDownloader
	pricing    domain.PricingService
}

func NewCreateHandler(repo repository.TranscriptionRepository, dispatcher EventDispatcher, downloader service.VideoDownloader, pricing domain.PricingService) *CreateHandler {
	return &CreateHandler{
		repo:       repo,
		dispatcher: dispatcher,
		downloader: downloader,
		pricing:    pricing,
	}
}

func (h *CreateHandler) CommandNames() []string {
	return []string{CreateFromFileName, CreateFromYouTubeName}
}

func (h *CreateHandler) Handle(ctx context.Context, cmd Command) (any, error) {
	switch c := cmd.(type) {
	case *CreateFromFile:
		return h.createFromFile(ctx, c)
	case *CreateFromYouTube:
		return h.createFromYouTube(ctx, c)
	default:
		return nil, fmt.Errorf("%w for command: %s", ErrNoHandler, cmd.CommandName())
	}
}

func (h *CreateHandler) createFromFile(ctx context.Context, cmd *CreateFromFile) (any, error) {
	t, err := domain.CreateFromFile(cmd.AudioFile, cmd.Language, cmd.UserID)
	if err != nil {
		return nil, err
	}
	return h.persist(ctx, t, cmd.Language, cmd.Priority)
}

func (h *CreateHandler) createFromYouTube(ctx context.Context, cmd *CreateFromYouTube) (any, error) {
	if h.downloader == nil {
		return nil, fmt.Errorf("video downloader not configured")
	}

	meta, err := h.downloader.Metadata(ctx, cmd.URL)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}

	downloaded, err := h.downloader.DownloadAudio(ctx, cmd.URL)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}

	file, err := domain.NewAudioFile(downloaded.Path, downloaded.OriginalName, downloaded.MimeType, downloaded.Size)
	if err != nil {
		return nil, err
	}
	if downloaded.Duration > 0 {
		file = file.WithDuration(downloaded.Duration)
	}

	youtube, err := domain.NewYouTubeMetadata(meta.VideoID, cmd.URL, meta.Title, meta.Duration)
	if err != nil {
		return nil, err
	}

	t, err := domain.CreateFromYouTube(file, youtube, cmd.Language, cmd.UserID)
	if err != nil {
		return nil, err
	}
	return h.persist(ctx, t, cmd.Language, cmd.Priority)
}

func (h *CreateHandler) persist(ctx context.Context, t *domain.Transcription, language domain.Language, priority bool) (any, error) {
	if err := h.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save transcription: %w", err)
	}
	h.dispatcher.DispatchAll(ctx, t.ReleaseEvents())

	estimate, err := h.pricing.CalculatePrice(t.AudioFile(), language, priority)
	if err != nil {
		return nil, err
	}
	return CreateResult{ID: t.ID(), EstimatedCost: estimate}, nil
}

// LifecycleHandler services single-transition commands: each dispatch loads
// the aggregate, applies exactly one transition, saves and publishes.
type LifecycleHandler struct {
	repo       repository.TranscriptionRepository
	dispatcher EventDispatcher
}

func NewLifecycleHandler(repo repository.TranscriptionRepository, dispatcher EventDispatcher) *LifecycleHandler {
	return &LifecycleHandler{repo: repo, dispatcher: dispatcher}
}

func (h *LifecycleHandler) CommandNames() []string {
	return []string{StartProcessingName, CompleteName, FailName, CancelName, RetryName, DeleteName}
}

func (h *LifecycleHandler) Handle(ctx context.Context, cmd Command) (any, error) {
	switch c := cmd.(type) {
	case *StartProcessing:
		return nil, h.transition(ctx, c.TranscriptionID, func(t *domain.Transcription) error {
			return t.StartProcessing(c.PreprocessedPath)
		})
	case *Complete:
		return nil, h.transition(ctx, c.TranscriptionID, func(t *domain.Transcription) error {
			return t.Complete(c.Text, c.Metadata)
		})
	case *Fail:
		return nil, h.transition(ctx, c.TranscriptionID, func(t *domain.Transcription) error {
			return t.Fail(c.Reason, c.ErrorCode, c.Context)
		})
	case *Cancel:
		return nil, h.transition(ctx, c.TranscriptionID, func(t *domain.Transcription) error {
			return t.Cancel()
		})
	case *Retry:
		return nil, h.transition(ctx, c.TranscriptionID, func(t *domain.Transcription) error {
			return t.Retry()
		})
	case *Delete:
		return nil, h.repo.Delete(ctx, c.TranscriptionID)
	default:
		return nil, fmt.Errorf("%w for command: %s", ErrNoHandler, cmd.CommandName())
	}
}

func (h *LifecycleHandler) transition(ctx context.Context, id domain.TranscriptionID, apply func(*domain.Transcription) error) error {
	t, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := apply(t); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, t); err != nil {
		return fmt.Errorf("save transcription: %w", err)
	}
	h.dispatcher.DispatchAll(ctx, t.ReleaseEvents())
	return nil
}

// ProcessHandler runs the full pipeline within one dispatch. A provider
// failure must leave the aggregate failed, never stuck in processing.
type ProcessHandler struct {
	repo        repository.TranscriptionRepository
	dispatcher  EventDispatcher
	transcriber service.Transcriber
	pricing     domain.PricingService
}

func NewProcessHandler(repo repository.TranscriptionRepository, dispatcher EventDispatcher, transcriber service.Transcriber, pricing domain.PricingService) *ProcessHandler {
	return &ProcessHandler{
		repo:        repo,
		dispatcher:  dispatcher,
		transcriber: transcriber,
		pricing:     pricing,
	}
}

func (h *ProcessHandler) CommandNames() []string {
	return []string{ProcessName}
}

func (h *ProcessHandler) Handle(ctx context.Context, cmd Command) (any, error) {
	c, ok := cmd.(*Process)
	if !ok {
		return nil, fmt.Errorf("%w for command: %s", ErrNoHandler, cmd.CommandName())
	}

	t, err := h.repo.FindByID(ctx, c.TranscriptionID)
	if err != nil {
		return nil, err
	}

	if err := t.StartProcessing(c.PreprocessedPath); err != nil {
		return nil, err
	}
	if err := h.repo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save transcription: %w", err)
	}
	h.dispatcher.DispatchAll(ctx, t.ReleaseEvents())

	result, err := h.transcriber.Transcribe(ctx, t.AudioFile(), t.Language())
	if err != nil {
		return nil, h.failProcessing(ctx, t, err)
	}

	cost := result.Cost
	if cost.IsZero() {
		cost, err = h.pricing.CalculatePrice(t.AudioFile(), t.Language(), false)
		if err != nil {
			return nil, h.failProcessing(ctx, t, err)
		}
	}

	metadata := map[string]string{
		"cost":   cost.String(),
		"engine": "whisper",
	}
	if err := t.Complete(result.Text, metadata); err != nil {
		return nil, h.failProcessing(ctx, t, err)
	}
	if err := h.repo.Save(ctx, t); err != nil {
		saveErr := fmt.Errorf("save transcription: %w", err)
		// The in-memory aggregate is already completed; fail the stored
		// copy so nothing stays stuck in processing.
		if fresh, findErr := h.repo.FindByID(ctx, t.ID()); findErr == nil {
			return nil, h.failProcessing(ctx, fresh, saveErr)
		}
		return nil, saveErr
	}
	h.dispatcher.DispatchAll(ctx, t.ReleaseEvents())

	return ProcessResult{ID: t.ID(), WordCount: result.Text.WordCount(), Cost: cost}, nil
}

// failProcessing transitions to failed and reports the original error; a
// second failure while saving is attached rather than lost.
func (h *ProcessHandler) failProcessing(ctx context.Context, t *domain.Transcription, cause error) error {
	if err := t.Fail(cause.Error(), "TRANSCRIPTION_PROVIDER_ERROR", nil); err != nil {
		return fmt.Errorf("transcribe: %w (fail transition also rejected: %v)", cause, err)
	}
	if err := h.repo.Save(ctx, t); err != nil {
		return fmt.Errorf("transcribe: %w (save after fail: %v)", cause, err)
	}
	h.dispatcher.DispatchAll(ctx, t.ReleaseEvents())
	return fmt.Errorf("transcribe: %w", cause)
}
