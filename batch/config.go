package batch

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gnolang/fol/internal"
	tt "github.com/gnolang/fol/internal/types"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = ".fol.yaml"

// Config is the content of a configuration file.
type Config struct {
	Name       string                        `yaml:"name"`
	MaxDepth   int                           `yaml:"max-depth,omitempty"`
	Pipeline   []string                      `yaml:"pipeline"`
	Transforms map[string]tt.ConfigTransform `yaml:"transforms,omitempty"`
}

// DefaultConfig is the configuration written by "fol init".
func DefaultConfig() Config {
	pipeline := make([]string, len(internal.DefaultPipeline))
	copy(pipeline, internal.DefaultPipeline)
	return Config{
		Name:       "fol",
		Pipeline:   pipeline,
		Transforms: map[string]tt.ConfigTransform{},
	}
}

// EngineConfig converts c for internal.NewEngine.
func (c Config) EngineConfig() internal.Config {
	return internal.Config{
		MaxDepth:   c.MaxDepth,
		Pipeline:   c.Pipeline,
		Transforms: c.Transforms,
	}
}

// LoadConfig reads the configuration at path. An empty path, or a missing
// DefaultConfigFile, yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	config := DefaultConfig()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("error parsing %s: %w", path, err)
	}

	return config, nil
}

// WriteConfig stores config at path, replacing any existing file.
func WriteConfig(path string, config Config) error {
	if path == "" {
		path = DefaultConfigFile
	}

	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, d, 0o644)
}
