package config

import "time"

// Config represents the complete configuration for the glot application.
// It covers all commands (classify, batch, serve, train) and supports
// loading from configuration files, environment variables, and
// command-line flags.
//
// The supported language tags and the default fallback tag are build-time
// constants of the classifier and deliberately have no configuration knob.
type Config struct {
	// Global settings
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel  string `mapstructure:"log_level"  yaml:"log_level"  json:"log_level"`
	Verbose   bool   `mapstructure:"verbose"    yaml:"verbose"    json:"verbose"`

	// Classifier model selection
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier" json:"classifier"`

	// Output formatting
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server settings (serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing settings
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Training settings (train command)
	Train TrainConfig `mapstructure:"train" yaml:"train" json:"train"`
}

// ClassifierConfig contains classifier model settings.
type ClassifierConfig struct {
	// ModelPath overrides the embedded model table when set.
	ModelPath string `mapstructure:"model_path" yaml:"model_path" json:"model_path"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format              string `mapstructure:"format"               yaml:"format"               json:"format"`
	File                string `mapstructure:"file"                 yaml:"file"                 json:"file"`
	ConfidencePrecision int    `mapstructure:"confidence_precision" yaml:"confidence_precision" json:"confidence_precision"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host"             yaml:"host"             json:"host"`
	Port            int    `mapstructure:"port"             yaml:"port"             json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin"      yaml:"cors_origin"      json:"cors_origin"`
	MaxSnippetKB    int    `mapstructure:"max_snippet_kb"   yaml:"max_snippet_kb"   json:"max_snippet_kb"`
	TimeoutSec      int    `mapstructure:"timeout_sec"      yaml:"timeout_sec"      json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// Rate limiting
	RateLimitEnabled  bool  `mapstructure:"rate_limit_enabled"   yaml:"rate_limit_enabled"   json:"rate_limit_enabled"`
	RequestsPerMinute int   `mapstructure:"requests_per_minute"  yaml:"requests_per_minute"  json:"requests_per_minute"`
	RequestsPerHour   int   `mapstructure:"requests_per_hour"    yaml:"requests_per_hour"    json:"requests_per_hour"`
	MaxRequestsPerDay int   `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataPerDay     int64 `mapstructure:"max_data_per_day"     yaml:"max_data_per_day"     json:"max_data_per_day"`
}

// BatchConfig contains batch classification settings.
type BatchConfig struct {
	Workers          int           `mapstructure:"workers"           yaml:"workers"           json:"workers"`
	Recursive        bool          `mapstructure:"recursive"         yaml:"recursive"         json:"recursive"`
	ContinueOnError  bool          `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
	IncludePatterns  []string      `mapstructure:"include_patterns"  yaml:"include_patterns"  json:"include_patterns"`
	ExcludePatterns  []string      `mapstructure:"exclude_patterns"  yaml:"exclude_patterns"  json:"exclude_patterns"`
	MaxFileSizeKB    int           `mapstructure:"max_file_size_kb"  yaml:"max_file_size_kb"  json:"max_file_size_kb"`
	ProgressInterval time.Duration `mapstructure:"progress_interval" yaml:"progress_interval" json:"progress_interval"`
}

// TrainConfig contains model training settings.
type TrainConfig struct {
	CorpusDir  string `mapstructure:"corpus_dir"  yaml:"corpus_dir"  json:"corpus_dir"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path" json:"output_path"`
	MinSamples int    `mapstructure:"min_samples" yaml:"min_samples" json:"min_samples"`
}
