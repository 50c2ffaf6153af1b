package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go-image-quality/internal/analyzer"
	apperrors "go-image-quality/internal/errors"
	"go-image-quality/internal/hasher"
	"go-image-quality/internal/logger"
	"go-image-quality/internal/metadata"
	"go-image-quality/internal/observer"
	"go-image-quality/internal/repository"
	"go-image-quality/internal/storage"
	"go-image-quality/pkg/models"
	"go-image-quality/pkg/validation"
)

// UploadSourcePrefix marks the Source of evaluations of uploaded files
const UploadSourcePrefix = "upload:"

// EvaluationService evaluates images referenced by path, URL or upload
type EvaluationService interface {
	Evaluate(ctx context.Context, ref string) (*models.EvaluationResponse, error)
	EvaluateUpload(ctx context.Context, r io.Reader, filename string) (*models.EvaluationResponse, error)
	Validate(ref string) error
}

// Config bounds the service's work per request
type Config struct {
	FetchTimeout      time.Duration
	EvaluationTimeout time.Duration
	MaxUploadSize     int64
}

type evaluationService struct {
	repo      repository.ImageRepository
	evaluator analyzer.ImageEvaluator
	quality   *validation.QualityValidator
	pool      *analyzer.WorkerPool
	events    observer.Subject
	cfg       Config
}

// NewEvaluationService creates the service. The pool must already be started.
func NewEvaluationService(
	repo repository.ImageRepository,
	evaluator analyzer.ImageEvaluator,
	pool *analyzer.WorkerPool,
	events observer.Subject,
	cfg Config,
) EvaluationService {
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &evaluationService{
		repo:      repo,
		evaluator: evaluator,
		quality:   validation.NewQualityValidator(),
		pool:      pool,
		events:    events,
		cfg:       cfg,
	}
}

// Validate checks a reference without fetching it
func (s *evaluationService) Validate(ref string) error {
	return s.repo.Validate(ref)
}

// Evaluate fetches ref and evaluates it
func (s *evaluationService) Evaluate(ctx context.Context, ref string) (*models.EvaluationResponse, error) {
	start := time.Now()
	s.events.NotifyObservers(ctx, observer.EvaluationEvent{EventType: observer.EvaluationStarted, Source: ref})

	fetchCtx, cancel := s.withTimeout(ctx, s.cfg.FetchTimeout)
	img, err := s.repo.Open(fetchCtx, ref)
	cancel()
	if err != nil {
		s.events.NotifyObservers(ctx, observer.EvaluationEvent{
			EventType:    observer.ImageFetchFailed,
			Source:       ref,
			ErrorMessage: err.Error(),
		})
		return nil, s.fail(ctx, ref, start, err)
	}
	s.events.NotifyObservers(ctx, observer.EvaluationEvent{
		EventType:      observer.ImageFetched,
		Source:         ref,
		ProcessingTime: time.Since(start),
		Success:        true,
	})

	return s.evaluate(ctx, img, ref, start)
}

// EvaluateUpload stores r in a temporary file and evaluates it. The file
// name selects the decoder.
func (s *evaluationService) EvaluateUpload(ctx context.Context, r io.Reader, filename string) (*models.EvaluationResponse, error) {
	start := time.Now()
	source := UploadSourcePrefix + filename
	s.events.NotifyObservers(ctx, observer.EvaluationEvent{EventType: observer.EvaluationStarted, Source: source})

	img, err := storage.NewTempImage(r, filename, source, s.cfg.MaxUploadSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			err = apperrors.NewValidationError(fmt.Sprintf("upload larger than %d bytes", s.cfg.MaxUploadSize), err)
		} else {
			err = apperrors.NewInternalError("failed to store upload", err)
		}
		return nil, s.fail(ctx, source, start, err)
	}

	return s.evaluate(ctx, img, source, start)
}

type jobResult struct {
	response *models.EvaluationResponse
	err      error
}

// evaluate runs the pipeline on the worker pool. The job takes ownership of
// img and closes it, so a caller that gives up early does not remove the
// file from under a running decode.
func (s *evaluationService) evaluate(ctx context.Context, img *storage.LocalImage, source string, start time.Time) (*models.EvaluationResponse, error) {
	evalCtx, cancel := s.withTimeout(ctx, s.cfg.EvaluationTimeout)
	defer cancel()

	done := make(chan jobResult, 1)
	submitted := s.pool.Submit(evalCtx, func() {
		defer img.Close()
		resp, err := s.run(img, source, start)
		done <- jobResult{resp, err}
	})
	if !submitted {
		img.Close()
		return nil, s.fail(ctx, source, start, contextError(evalCtx.Err(), "waiting for a free worker"))
	}

	select {
	case res := <-done:
		if res.err != nil {
			return nil, s.fail(ctx, source, start, res.err)
		}
		s.events.NotifyObservers(ctx, observer.EvaluationEvent{
			EventType:      observer.EvaluationCompleted,
			Source:         source,
			ProcessingTime: time.Since(start),
			Success:        true,
			QualityLevel:   res.response.Report.QualityLevel,
			Metadata: map[string]interface{}{
				"id":         res.response.ID,
				"resolution": res.response.Report.Resolution,
			},
		})
		return res.response, nil
	case <-evalCtx.Done():
		return nil, s.fail(ctx, source, start, contextError(evalCtx.Err(), "evaluating image"))
	}
}

func (s *evaluationService) run(img *storage.LocalImage, source string, start time.Time) (resp *models.EvaluationResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewInternalError("evaluation panicked", fmt.Errorf("%v", r))
		}
	}()

	report, err := s.evaluator.Evaluate(img.Path)
	if err != nil {
		return nil, err
	}

	id, err := hasher.FileHash(img.Path)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fingerprint image", err)
	}

	exif, err := metadata.ReadExif(img.Path)
	if err != nil {
		logger.WithError(err).WithField("source", source).Debug("EXIF read failed")
	}

	return &models.EvaluationResponse{
		ID:                id,
		Source:            source,
		Timestamp:         start,
		ProcessingTimeSec: time.Since(start).Seconds(),
		Report:            report,
		Exif:              exif,
		Issues:            s.quality.Validate(report),
	}, nil
}

func (s *evaluationService) fail(ctx context.Context, source string, start time.Time, err error) error {
	s.events.NotifyObservers(ctx, observer.EvaluationEvent{
		EventType:      observer.EvaluationFailed,
		Source:         source,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
		Metadata:       map[string]interface{}{"error_type": errorType(err)},
	})
	return err
}

func (s *evaluationService) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func contextError(err error, doing string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("timed out "+doing, err)
	}
	return apperrors.NewInternalError("cancelled while "+doing, err)
}

func errorType(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Type)
	}
	return string(apperrors.ErrorTypeInternal)
}
