package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isofit/internal/errors"
)

func TestServerOptionsCarryWorkers(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     string
		workers int
	}{
		{"default", "", "", 4},
		{"from file", "server:\n  workers: 12\n", "", 12},
		{"env overrides file", "server:\n  workers: 12\n", "20", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.file != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
			}
			if tt.env != "" {
				t.Setenv("ISOFIT_WORKERS", tt.env)
			}

			cfg, err := loadConfig(path)
			require.NoError(t, err)
			opts := serverOptions(cfg)
			assert.Equal(t, tt.workers, opts.Workers)
			assert.Equal(t, cfg.Engine.DefaultLanguage, opts.Engine.DefaultLanguage)
			assert.True(t, opts.Metrics)
		})
	}
}

func TestLoadConfigRejectsWorkersOutOfRange(t *testing.T) {
	for _, workers := range []string{"0", "65"} {
		t.Run(workers, func(t *testing.T) {
			t.Setenv("ISOFIT_WORKERS", workers)
			_, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig))
		})
	}
}
