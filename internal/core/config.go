package core

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// ConfigurationManager loads and validates the .mtxconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	// basePath is the directory where .mtxconfig resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with the defaults
// used when no config file exists.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		AutoApproveThreshold:  DefaultAutoApproveThreshold,
		HighPriorityThreshold: DefaultHighPriorityThreshold,
		Model:                 "claude-sonnet-4-20250514",
		MaxTokens:             2000,
	}
}

// LoadGlobalConfig reads the .mtxconfig file from the base path using
// Viper. If the file does not exist, defaults are returned. Invalid
// thresholds are a configuration error reported here, not at routing time.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".mtxconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("routing.auto_approve_threshold", cfg.AutoApproveThreshold)
	v.SetDefault("routing.high_priority_threshold", cfg.HighPriorityThreshold)
	v.SetDefault("extraction.model", cfg.Model)
	v.SetDefault("extraction.max_tokens", cfg.MaxTokens)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .mtxconfig: %w", err)
	}

	cfg.AutoApproveThreshold = v.GetFloat64("routing.auto_approve_threshold")
	cfg.HighPriorityThreshold = v.GetFloat64("routing.high_priority_threshold")
	cfg.Model = v.GetString("extraction.model")
	cfg.MaxTokens = v.GetInt("extraction.max_tokens")

	// Fail fast on threshold misconfiguration.
	if _, err := NewReviewRouter(cfg.AutoApproveThreshold, cfg.HighPriorityThreshold); err != nil {
		return nil, fmt.Errorf("validating .mtxconfig: %w", err)
	}

	return cfg, nil
}
