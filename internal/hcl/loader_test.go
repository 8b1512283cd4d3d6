package hcl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadHost(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orchard.hcl", `
		extensions_path    = "ext"
		disable_monitoring = true
		log_level          = "debug"

		shell "Default" {
			features = ["Orchard.Title", env.EXTRA_FEATURE]
		}

		shell "Tenant2" {
			features = ["TheTheme"]
			encoding = "windows-1252"
		}
	`)

	loader := NewLoader()
	loader.Environ = func() []string { return []string{"EXTRA_FEATURE=Orchard.Body", "1INVALID=x", "PATH=/bin"} }

	host, err := loader.LoadHost(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "ext"), host.ExtensionsPath)
	assert.True(t, host.DisableMonitoring)
	assert.Equal(t, "debug", host.LogLevel)
	require.Len(t, host.Shells, 2)
	assert.Equal(t, "Default", host.Shells[0].Name)
	assert.Equal(t, []string{"Orchard.Title", "Orchard.Body"}, host.Shells[0].Features)
	assert.Equal(t, "windows-1252", host.Shell("Tenant2").Encoding)
	assert.Nil(t, host.Shell("Missing"))
}

func TestLoader_LoadHost_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orchard.hcl", `shell "Default" {}`)

	host, err := NewLoader().LoadHost(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "extensions"), host.ExtensionsPath)
	assert.False(t, host.DisableMonitoring)
	assert.Empty(t, host.Shells[0].Features)
}

func TestLoader_LoadHost_Errors(t *testing.T) {
	testCases := map[string]string{
		"syntax error":    `shell "Default" {`,
		"unknown field":   `bogus = 1`,
		"duplicate shell": "shell \"A\" {}\nshell \"A\" {}",
	}
	for name, content := range testCases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "orchard.hcl", content)
			_, err := NewLoader().LoadHost(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
		})
	}

	_, err := NewLoader().LoadHost(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestLoader_LoadManifest(t *testing.T) {
	src := `
		name         = "Title"
		description  = "Adds a title part."
		version      = "1.0"
		dependencies = ["Orchard.Contents"]

		feature "Orchard.Title.Slug" {
			name         = "Title slugs"
			dependencies = ["Orchard.Title"]
		}
	`
	m, err := NewLoader().LoadManifest(context.Background(), strings.NewReader(src), "Modules/Orchard.Title/module.hcl")
	require.NoError(t, err)

	assert.Equal(t, "Title", m.Name)
	assert.Equal(t, []string{"Orchard.Contents"}, m.Dependencies)
	require.Len(t, m.Features, 1)
	f := m.Features[0]
	assert.Equal(t, "Orchard.Title.Slug", f.ID)
	assert.Equal(t, "Title slugs", f.Name)
	assert.Equal(t, []string{"Orchard.Title"}, f.Dependencies)
}

func TestLoader_LoadManifest_DuplicateFeature(t *testing.T) {
	src := "feature \"A\" {}\nfeature \"A\" {}"
	_, err := NewLoader().LoadManifest(context.Background(), strings.NewReader(src), "module.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared more than once")
}
