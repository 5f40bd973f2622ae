package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email2dict/internal/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Output.Format)
	assert.Equal(t, 2, c.Output.Indent)
	assert.Equal(t, 1, c.Extract.Workers)
	assert.Empty(t, c.RecordOptions())
}

func TestDecode(t *testing.T) {
	t.Parallel()

	c, err := config.Decode(`
[log]
level = "debug"

[output]
format = "dump"

[extract]
parallel_parts = true
max_depth = 4
workers = 8
`)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "dump", c.Output.Format)
	assert.Equal(t, 2, c.Output.Indent)
	assert.True(t, c.Extract.ParallelParts)
	assert.Equal(t, 4, c.Extract.MaxDepth)
	assert.Equal(t, 8, c.Extract.Workers)
	assert.Len(t, c.RecordOptions(), 2)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"syntax", "[log\n", false},
		{"unknown key", "[log]\ncolor = true\n", false},
		{"bad level", "[log]\nlevel = \"loud\"\n", true},
		{"bad format", "[output]\nformat = \"yaml\"\n", true},
		{"negative indent", "[output]\nindent = -1\n", true},
		{"no workers", "[extract]\nworkers = 0\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Decode(tt.doc)
			require.Error(t, err)

			var verr validator.ValidationErrors
			assert.Equal(t, tt.invalid, errors.As(err, &verr))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)

	path := filepath.Join(t.TempDir(), "email2dict.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output]\nindent = 0\n"), 0o600))

	c, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Output.Indent)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
