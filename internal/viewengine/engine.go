package viewengine

import (
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/vfs"
)

// Engine is a view engine: it detects its template files and locates views
// for them.
type Engine interface {
	display.ViewLocator
	// DetectTemplateFileNames returns the names the engine can render, in
	// input order.
	DetectTemplateFileNames(fileNames []string) []string
}

// detect keeps the names whose extension is one of exts, ignoring case.
func detect(fileNames []string, exts []string) []string {
	var out []string
	for _, name := range fileNames {
		if hasExtension(name, exts) {
			out = append(out, name)
		}
	}
	return out
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext != "" && slices.Contains(exts, ext)
}

// readTemplate reads the template at virtualPath. It reports false when
// the file does not exist.
func readTemplate(fs vfs.FileSystem, virtualPath string) ([]byte, bool, error) {
	if !fs.Exists(virtualPath) {
		return nil, false, nil
	}
	r, err := fs.OpenRead(virtualPath)
	if err != nil {
		return nil, false, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", virtualPath, err)
	}
	return data, true, nil
}

// renderAsync runs fn on its own goroutine and delivers its result.
func renderAsync(ctx context.Context, fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- fn(ctx)
	}()
	return done
}
