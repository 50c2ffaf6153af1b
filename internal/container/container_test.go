package container

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-image-quality/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		RequestTimeout:     5 * time.Second,
		FetchTimeout:       time.Second,
		EvaluationTimeout:  time.Second,
		MaxUploadSize:      1 << 20,
		Workers:            2,
		ResolutionStrategy: "combined",
		LogLevel:           "error",
	}
}

func TestNewContainer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer c.Close()

	if c.Config().Workers != 2 {
		t.Errorf("Expected config to be kept")
	}
	if c.Service() == nil || c.Stats() == nil {
		t.Fatal("Expected service and stats to be wired")
	}

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected health 200, got %d", w.Code)
	}
}

func TestNewContainer_LocalPathsDisabled(t *testing.T) {
	c, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer c.Close()

	if err := c.Service().Validate("/tmp/photo.png"); err == nil {
		t.Error("Expected local paths to be rejected by default")
	}
	if err := c.Service().Validate("https://example.com/photo.png"); err != nil {
		t.Errorf("Expected https URL to be accepted, got %v", err)
	}
}

func TestNewContainer_UnknownStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.ResolutionStrategy = "fuzzy"

	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("Expected unknown strategy to fail")
	}
}
