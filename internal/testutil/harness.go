package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/690486439/Orchard2/internal/app"
	"github.com/690486439/Orchard2/internal/hcl"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Dir       string
	LogOutput string
	Err       error
	App       *app.App
}

// WriteTree writes files, keyed by slash-separated relative path, into a
// fresh temporary directory and returns it.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	return tmpDir
}

// RunIntegrationTest provides a standardized harness for starting an App
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files)
}

// RunIntegrationTestWithContext writes files into a temporary host
// directory and starts an App on its orchard.hcl. Monitoring is disabled
// so tests do not leak watcher goroutines.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	dir := WriteTree(t, files)
	appConfig, err := app.NewConfig(app.Config{
		ConfigPath:        filepath.Join(dir, "orchard.hcl"),
		LogLevel:          "debug",
		LogFormat:         "text",
		DisableMonitoring: true,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp, err := app.NewApp(ctx, logBuffer, appConfig, hcl.NewLoader())
	if testApp != nil {
		t.Cleanup(func() { testApp.Close() })
	}
	if os.Getenv("ORCHARD_TEST_LOGS") == "true" {
		t.Logf("--- APP LOGS ---\n%s", logBuffer.String())
	}

	return &HarnessResult{
		Dir:       dir,
		LogOutput: logBuffer.String(),
		Err:       err,
		App:       testApp,
	}
}
