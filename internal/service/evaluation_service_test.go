package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-image-quality/internal/analyzer"
	apperrors "go-image-quality/internal/errors"
	"go-image-quality/internal/hasher"
	"go-image-quality/internal/observer"
	"go-image-quality/internal/repository"
	"go-image-quality/internal/storage"
	"go-image-quality/pkg/models"
	"go-image-quality/pkg/validation"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x/8+y/8)%2 == 0 {
				v = 255
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type blockingEvaluator struct {
	release chan struct{}
}

func (b *blockingEvaluator) Evaluate(path string) (models.Report, error) {
	<-b.release
	return models.Report{}, nil
}

func (b *blockingEvaluator) EvaluateImage(img image.Image, path string) (models.Report, error) {
	return b.Evaluate(path)
}

type fixture struct {
	svc     EvaluationService
	metrics *observer.MetricsObserver
	dir     string
}

func newFixture(t *testing.T, evaluator analyzer.ImageEvaluator, cfg Config) *fixture {
	t.Helper()
	pool := analyzer.NewWorkerPool(2)
	pool.Start()
	t.Cleanup(pool.Close)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(metrics)

	repo := repository.NewSourceRepository(
		repository.Sources{Local: storage.NewLocalStorage()},
		validation.NewSourceValidator(true),
	)
	if evaluator == nil {
		evaluator = analyzer.NewEvaluator(analyzer.DefaultOptions())
	}
	return &fixture{
		svc:     NewEvaluationService(repo, evaluator, pool, events, cfg),
		metrics: metrics,
		dir:     t.TempDir(),
	}
}

func (f *fixture) write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEvaluate_LocalFile(t *testing.T) {
	f := newFixture(t, nil, Config{FetchTimeout: time.Second, EvaluationTimeout: 10 * time.Second})
	data := pngBytes(t, 640, 480)
	path := f.write(t, "checker.png", data)

	resp, err := f.svc.Evaluate(context.Background(), path)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if resp.ID != hasher.ContentHash(data, hasher.IDLength) {
		t.Errorf("Expected ID to be the content hash, got %s", resp.ID)
	}
	if resp.Source != path {
		t.Errorf("Expected source %s, got %s", path, resp.Source)
	}
	if resp.Report.Width != 640 || resp.Report.Height != 480 || resp.Report.FileFormat != "PNG" {
		t.Errorf("Unexpected report: %+v", resp.Report)
	}
	if resp.Report.QualityLevel != models.QualityHigh {
		t.Errorf("Expected a checkerboard to grade high, got %v", resp.Report.QualityLevel)
	}
	if resp.Exif != nil {
		t.Errorf("Expected no EXIF for a PNG, got %+v", resp.Exif)
	}

	found := false
	for _, issue := range resp.Issues {
		if issue.Type == "unrecognized_resolution" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected an unrecognized resolution advisory for 640x480, got %v", resp.Issues)
	}

	if _, err := os.Stat(path); err != nil {
		t.Error("Expected local file to be left in place")
	}

	stats := f.metrics.Stats()
	if stats.TotalEvaluations != 1 || stats.SuccessfulEvaluations != 1 || stats.ByQualityLevel[models.QualityHigh] != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestEvaluate_Failures(t *testing.T) {
	f := newFixture(t, nil, Config{})

	tests := []struct {
		name    string
		ref     func() string
		errType apperrors.ErrorType
	}{
		{"missing file", func() string { return filepath.Join(f.dir, "missing.png") }, apperrors.ErrorTypeNotFound},
		{"corrupt file", func() string { return f.write(t, "bad.png", []byte("nope")) }, apperrors.ErrorTypeDecode},
		{"unsupported format", func() string { return f.write(t, "doc.psd", []byte("8BPS")) }, apperrors.ErrorTypeDecode},
		{"url without http source", func() string { return "https://example.com/a.png" }, apperrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Evaluate(context.Background(), tt.ref())
			if resp != nil {
				t.Error("Expected no response on failure")
			}
			if !apperrors.IsType(err, tt.errType) {
				t.Errorf("Expected %s error, got %v", tt.errType, err)
			}
		})
	}

	stats := f.metrics.Stats()
	if stats.FailedEvaluations != int64(len(tests)) || stats.SuccessfulEvaluations != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestEvaluateUpload(t *testing.T) {
	f := newFixture(t, nil, Config{MaxUploadSize: 1 << 20})

	resp, err := f.svc.EvaluateUpload(context.Background(), bytes.NewReader(pngBytes(t, 1280, 720)), "frame.png")
	if err != nil {
		t.Fatalf("EvaluateUpload returned error: %v", err)
	}
	if resp.Source != "upload:frame.png" {
		t.Errorf("Unexpected source %q", resp.Source)
	}
	if resp.Report.ResolutionStandard != "720p" || resp.Report.AspectRatio != "16:9" {
		t.Errorf("Unexpected report: %+v", resp.Report)
	}
}

func TestEvaluateUpload_TooLarge(t *testing.T) {
	f := newFixture(t, nil, Config{MaxUploadSize: 16})

	_, err := f.svc.EvaluateUpload(context.Background(), bytes.NewReader(pngBytes(t, 32, 32)), "a.png")
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestEvaluate_Timeout(t *testing.T) {
	blocker := &blockingEvaluator{release: make(chan struct{})}
	defer close(blocker.release)

	f := newFixture(t, blocker, Config{EvaluationTimeout: 50 * time.Millisecond})
	path := f.write(t, "a.png", pngBytes(t, 8, 8))

	_, err := f.svc.Evaluate(context.Background(), path)
	if !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
		t.Errorf("Expected timeout error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	f := newFixture(t, nil, Config{})
	if err := f.svc.Validate(""); err == nil {
		t.Error("Expected empty reference to be rejected")
	}
	if err := f.svc.Validate("/tmp/a.png"); err != nil {
		t.Errorf("Expected local path to be accepted, got %v", err)
	}
}
