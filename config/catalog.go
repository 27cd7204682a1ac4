package config

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/pipekit/errors"
)

// DatasetConfig describes one catalog entry.
type DatasetConfig struct {
	// Type selects the dataset factory, e.g. "memory", "json", "csv".
	Type string `yaml:"type" mapstructure:"type" validate:"required"`
	// Layer optionally places the dataset on a named catalog layer.
	Layer string `yaml:"layer" mapstructure:"layer"`
	// Filepath is the backing file for file-based types. ${VAR}
	// placeholders are expanded from the environment.
	Filepath string `yaml:"filepath" mapstructure:"filepath"`
	// Options carries type-specific settings.
	Options map[string]any `yaml:"options" mapstructure:"options"`
}

// CatalogConfig is the root of a catalog file.
type CatalogConfig struct {
	// Datasets maps catalog names to their dataset declarations.
	Datasets map[string]DatasetConfig `yaml:"datasets" mapstructure:"datasets" validate:"dive"`
	// Feed holds plain values registered as in-memory datasets.
	Feed map[string]any `yaml:"feed" mapstructure:"feed"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
	})
	return validate
}

// Validate checks every dataset entry against its struct tags.
func (c *CatalogConfig) Validate() error {
	for name, ds := range c.Datasets {
		if err := getValidator().Struct(ds); err != nil {
			reason := "invalid entry"
			if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
				parts := make([]string, 0, len(verrs))
				for _, e := range verrs {
					parts = append(parts, e.Field()+" failed "+e.Tag())
				}
				reason = strings.Join(parts, "; ")
			}
			return errors.BadConfig(name, reason)
		}
	}
	return nil
}
