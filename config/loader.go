package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/pipekit/catalog"
	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/logger"
)

// LoaderConfig holds optional overrides for catalog loading.
type LoaderConfig struct {
	// EnvFile is an optional .env file loaded before placeholder expansion.
	EnvFile string
	// Factories resolves dataset types. Nil means DefaultFactories().
	Factories *FactoryRegistry
}

// LoaderOption customizes the loader.
type LoaderOption func(*LoaderConfig)

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithFactories sets the dataset factory registry.
func WithFactories(factories *FactoryRegistry) LoaderOption {
	return func(lc *LoaderConfig) { lc.Factories = factories }
}

// LoadCatalogConfig reads and validates a catalog file.
func LoadCatalogConfig(path string, opts ...LoaderOption) (*CatalogConfig, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return nil, errors.BadConfig(lc.EnvFile, "cannot load env file").WithCause(err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.BadConfig(path, "cannot read catalog file").WithCause(err)
	}

	var cfg CatalogConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.BadConfig(path, "cannot parse catalog file").WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BuildCatalog constructs a data catalog from a validated configuration.
// Dataset paths go through ${VAR} environment expansion before the type's
// factory runs; feed values become in-memory datasets.
func BuildCatalog(cfg *CatalogConfig, opts ...LoaderOption) (*catalog.DataCatalog, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	factories := lc.Factories
	if factories == nil {
		factories = DefaultFactories()
	}
	log := logger.Get("config")

	built := make(map[string]catalog.Dataset, len(cfg.Datasets))
	layers := make(map[string]string)
	for name, ds := range cfg.Datasets {
		factory, ok := factories.Get(ds.Type)
		if !ok {
			return nil, errors.BadConfig(name, "unknown dataset type "+ds.Type)
		}
		ds.Filepath = os.ExpandEnv(ds.Filepath)
		dataset, err := factory(name, ds)
		if err != nil {
			return nil, err
		}
		built[name] = dataset
		if ds.Layer != "" {
			layers[name] = ds.Layer
		}
		log.Debug("dataset configured", logger.Fields(
			logger.FieldDataset, name,
			logger.FieldOperation, ds.Type,
		))
	}

	cat := catalog.New(built, catalog.WithLayers(layers))
	if len(cfg.Feed) > 0 {
		if err := cat.AddFeedDict(cfg.Feed, false); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// LoadCatalog reads a catalog file and builds the catalog in one step.
func LoadCatalog(path string, opts ...LoaderOption) (*catalog.DataCatalog, error) {
	cfg, err := LoadCatalogConfig(path, opts...)
	if err != nil {
		return nil, err
	}
	return BuildCatalog(cfg, opts...)
}
