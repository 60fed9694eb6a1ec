package models

// GlobalConfig holds settings read from the .mtxconfig file.
type GlobalConfig struct {
	// Routing thresholds. HighPriorityThreshold must not exceed
	// AutoApproveThreshold and both must lie in [0,1].
	AutoApproveThreshold  float64 `yaml:"auto_approve_threshold"`
	HighPriorityThreshold float64 `yaml:"high_priority_threshold"`

	// Extraction model settings.
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}
