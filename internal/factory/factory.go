package factory

import (
	"fmt"
	"strings"

	"go-image-quality/internal/config"
	"go-image-quality/internal/storage"
	"go-image-quality/internal/strategy"
)

// StrategyType names a resolution lookup strategy
type StrategyType string

const (
	// ExactStrategy looks dimensions up in the named table only
	ExactStrategy StrategyType = "exact"
	// ThresholdStrategy walks the minimum-dimension rules only
	ThresholdStrategy StrategyType = "threshold"
	// CombinedStrategy tries the named table, then the thresholds
	CombinedStrategy StrategyType = "combined"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// StrategyFactory creates resolution strategies
type StrategyFactory interface {
	CreateStrategy(strategyType StrategyType) (strategy.ResolutionStrategy, error)
}

// StorageFactory creates image sources
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageSource, error)
}

type strategyFactory struct{}

// NewStrategyFactory creates a new strategy factory
func NewStrategyFactory() StrategyFactory {
	return &strategyFactory{}
}

// CreateStrategy creates a strategy by name. Names are case-insensitive and
// an empty name selects the combined strategy.
func (f *strategyFactory) CreateStrategy(strategyType StrategyType) (strategy.ResolutionStrategy, error) {
	switch StrategyType(strings.ToLower(string(strategyType))) {
	case ExactStrategy:
		return strategy.NewExactMatchStrategy(nil), nil
	case ThresholdStrategy:
		return strategy.NewThresholdStrategy(nil), nil
	case CombinedStrategy, "":
		return strategy.DefaultStrategy(), nil
	default:
		return nil, fmt.Errorf("unsupported resolution strategy: %s", strategyType)
	}
}

// storageFactory builds sources from the application config
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageSource, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPStorage(f.cfg.FetchTimeout, storage.WithMaxBytes(f.cfg.MaxUploadSize)), nil
	case AzureStorage:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return storage.NewAzureStorage(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.MaxUploadSize)
	case LocalStorage:
		if !f.cfg.AllowLocalPaths {
			return nil, fmt.Errorf("local storage is disabled")
		}
		return storage.NewLocalStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StrategyFactory StrategyFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		StrategyFactory: NewStrategyFactory(),
		StorageFactory:  NewStorageFactory(cfg),
	}
}
