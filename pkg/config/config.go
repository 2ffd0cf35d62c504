/*
Package config manages TOML config for the suggestion engine.

InitConfig handles automatic config file creation and loading with fallback
to defaults. LoadConfig and SaveConfig provide direct fs access for runtime
changes. Update allows targeted parameter changes with persistence.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/basketwise/suggestengine/internal/logger"
	"github.com/basketwise/suggestengine/internal/utils"
)

var log = logger.New("config")

// Config holds the entire config structure.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Catalog CatalogConfig `toml:"catalog"`
	CLI     CliConfig     `toml:"cli"`
}

// EngineConfig tunes the suggestion algorithm itself (spec.md §4.6, §4.7).
type EngineConfig struct {
	TopK                      int `toml:"top_k"`
	FuzzyEditDistance         int `toml:"fuzzy_edit_distance"`
	FuzzyMinTermLength        int `toml:"fuzzy_min_term_length"`
	AutocompleteMaxCandidates int `toml:"autocomplete_max_candidates"`
}

// CatalogConfig points at the on-disk artifacts the engine is built from.
type CatalogConfig struct {
	ProductArtifactPath    string `toml:"product_artifact_path"`
	SuggestionArtifactPath string `toml:"suggestion_artifact_path"`
}

// CliConfig holds interactive REPL defaults.
type CliConfig struct {
	DefaultQueryPrompt string `toml:"default_query_prompt"`
	DefaultBasketLimit int    `toml:"default_basket_limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			TopK:                      10,
			FuzzyEditDistance:         1,
			FuzzyMinTermLength:        4,
			AutocompleteMaxCandidates: 32,
		},
		Catalog: CatalogConfig{
			ProductArtifactPath:    "data/products.tsv",
			SuggestionArtifactPath: "data/suggestions.bin",
		},
		CLI: CliConfig{
			DefaultQueryPrompt: "basket> ",
			DefaultBasketLimit: 50,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: ( %s )", configPath)
		return config, nil
	}
	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	var config Config
	if err := utils.LoadTOMLFile(configPath, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		log.Errorf("Failed to create config file: %v", err)
		return err
	}
	defer file.Close()
	encoder := toml.NewEncoder(file)
	return encoder.Encode(config)
}

// Update changes engine tunables and saves to file.
func (c *Config) Update(configPath string, topK, fuzzyEditDistance, fuzzyMinTermLength *int) error {
	engine := &c.Engine
	if topK != nil {
		engine.TopK = *topK
	}
	if fuzzyEditDistance != nil {
		engine.FuzzyEditDistance = *fuzzyEditDistance
	}
	if fuzzyMinTermLength != nil {
		engine.FuzzyMinTermLength = *fuzzyMinTermLength
	}
	return SaveConfig(c, configPath)
}
