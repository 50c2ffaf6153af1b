package factory

import (
	"testing"
	"time"

	"go-image-quality/internal/config"
)

func TestCreateStrategy(t *testing.T) {
	f := NewStrategyFactory()

	tests := []struct {
		in      StrategyType
		want    string
		wantErr bool
	}{
		{ExactStrategy, "exact", false},
		{ThresholdStrategy, "threshold", false},
		{CombinedStrategy, "combined", false},
		{"THRESHOLD", "threshold", false},
		{"", "combined", false},
		{"fuzzy", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			s, err := f.CreateStrategy(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error for unknown strategy")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if s.GetStrategyName() != tt.want {
				t.Errorf("Expected %s strategy, got %s", tt.want, s.GetStrategyName())
			}
		})
	}
}

func TestCreateStorage(t *testing.T) {
	base := config.Config{
		FetchTimeout:  time.Second,
		MaxUploadSize: 1 << 20,
	}

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		kind     StorageType
		wantName string
		wantErr  bool
	}{
		{"http", nil, HTTPStorage, "http", false},
		{"local disabled", nil, LocalStorage, "", true},
		{"local enabled", func(c *config.Config) { c.AllowLocalPaths = true }, LocalStorage, "local", false},
		{"azure without credentials", nil, AzureStorage, "", true},
		{"azure", func(c *config.Config) {
			c.AzureStorageAccount = "acct"
			c.AzureStorageKey = "c2VjcmV0a2V5"
		}, AzureStorage, "azure", false},
		{"unknown", nil, "ftp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			src, err := NewStorageFactory(&cfg).CreateStorage(tt.kind)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if src.Name() != tt.wantName {
				t.Errorf("Expected source %s, got %s", tt.wantName, src.Name())
			}
		})
	}
}

func TestNewComponentFactory(t *testing.T) {
	f := NewComponentFactory(&config.Config{})
	if f.StrategyFactory == nil || f.StorageFactory == nil {
		t.Fatal("Expected both factories to be set")
	}
}
