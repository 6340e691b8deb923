package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{Path: ".", Output: OutputTAP, LogLevel: "warn"}, false},
		{"text output", Config{Path: "docs", Output: OutputText}, false},
		{"missing path", Config{Output: OutputTAP}, true},
		{"unknown output", Config{Path: ".", Output: "xml"}, true},
		{"unknown log level", Config{Path: ".", Output: OutputJSON, LogLevel: "trace"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, "docs"), expandTilde("~/docs"))
	assert.Equal(t, "docs", expandTilde("docs"))
	assert.Equal(t, "", expandTilde(""))
}

func TestSetPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	prev := viper.Get("path")
	t.Cleanup(func() { viper.Set("path", prev) })

	SetPath("~/notes")
	assert.Equal(t, "~/notes", C.Path)
	assert.Equal(t, filepath.Join(home, "notes"), GetPath())
}
