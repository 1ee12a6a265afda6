/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Source  SourceConfig  `mapstructure:"source" validate:"required"`
	Output  OutputConfig  `mapstructure:"output" validate:"required"`
	Catalog CatalogConfig `mapstructure:"catalog" validate:"omitempty"`
	Crash   CrashConfig   `mapstructure:"crash" validate:"required"`
}

// SourceConfig controls where contract sources are read from
type SourceConfig struct {
	// BaseDir is the install location excerpt file names are resolved against
	BaseDir string `mapstructure:"baseDir" validate:"required"`
	// ContextLines is how many lines are shown around a violation
	ContextLines int `mapstructure:"contextLines" validate:"min=1,max=20"`
}

// OutputConfig holds report rendering settings
type OutputConfig struct {
	Color string `mapstructure:"color" validate:"required,oneof=always never auto"`
}

// CatalogConfig points at an optional explanation overlay
type CatalogConfig struct {
	File string `mapstructure:"file" validate:"omitempty,min=1"`
}

// CrashConfig holds crash log settings
type CrashConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}
