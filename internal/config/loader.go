package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvFileVar names the environment variable pointing at an optional YAML
// config file.
const EnvFileVar = "NBAMETRICS_CONFIG"

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file named by NBAMETRICS_CONFIG, if set
//  3. environment variables with the NBAMETRICS_ prefix
//     (NBAMETRICS_CLUSTER_COUNT -> cluster_count, ...)
//
// The result is validated before being returned.
func Load() (*Config, error) {
	cfg := *New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %v", ErrLoadConfig, path, err)
		}
	}

	// Keep underscores so env keys line up with the koanf struct tags.
	envProvider := env.Provider("NBAMETRICS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "nbametrics_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
