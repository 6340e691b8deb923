package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Output modes
const (
	OutputTAP  = "tap"
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds the application configuration
type Config struct {
	Path     string   `mapstructure:"path"`
	Output   string   `mapstructure:"output"`
	Exclude  []string `mapstructure:"exclude"`
	Allow    []string `mapstructure:"allow"`
	Color    bool     `mapstructure:"color"`
	LogLevel string   `mapstructure:"log_level"`
	Editor   string   `mapstructure:"editor"`
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Output, validation.Required, validation.In(OutputTAP, OutputText, OutputJSON)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("path", ".")
	viper.SetDefault("output", OutputTAP)
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("allow", []string{})
	viper.SetDefault("color", true)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("editor", getDefaultEditor())

	viper.SetConfigName("dupword")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "dupword"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("DUPWORD")
	viper.AutomaticEnv()

	// A missing config file is fine, a malformed one is not
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return C.Validate()
}

// GetPath returns the scan root with tilde expansion
func GetPath() string {
	return expandTilde(viper.GetString("path"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetOutput returns the report format
func GetOutput() string {
	return strings.ToLower(viper.GetString("output"))
}

// GetExclude returns the exclude glob patterns
func GetExclude() []string {
	return viper.GetStringSlice("exclude")
}

// GetAllow returns extra allow-listed words
func GetAllow() []string {
	return viper.GetStringSlice("allow")
}

// GetColor reports whether coloured output is enabled
func GetColor() bool {
	return viper.GetBool("color")
}

// GetEditor returns the editor used to open files from the review screen
func GetEditor() string {
	return viper.GetString("editor")
}

// GetLogLevel returns the slog level
func GetLogLevel() slog.Level {
	switch strings.ToLower(viper.GetString("log_level")) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetPath sets the scan root at runtime
func SetPath(path string) {
	viper.Set("path", path)
	C.Path = path
}

// SetLogLevel sets the log level at runtime
func SetLogLevel(level string) {
	viper.Set("log_level", level)
	C.LogLevel = level
}

func getDefaultEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
