package viewengine

import (
	"context"
	"sync"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/vfs"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var markdownExtensions = []string{".md", ".markdown"}

// The converter configuration never changes and goldmark.Markdown is safe
// for concurrent use.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		)
	})
	return markdownInstance
}

// Markdown renders markdown files as static HTML. The model is ignored.
type Markdown struct {
	fs vfs.FileSystem
}

// NewMarkdown creates the engine.
func NewMarkdown(fs vfs.FileSystem) *Markdown {
	return &Markdown{fs: fs}
}

func (e *Markdown) DetectTemplateFileNames(fileNames []string) []string {
	return detect(fileNames, markdownExtensions)
}

func (e *Markdown) FindPartialView(ctx context.Context, virtualPath string) (display.View, bool, error) {
	if !hasExtension(virtualPath, markdownExtensions) {
		return nil, false, nil
	}
	src, found, err := readTemplate(e.fs, virtualPath)
	if err != nil || !found {
		return nil, false, err
	}
	ctxlog.FromContext(ctx).Debug("Located partial view.", "path", virtualPath, "engine", "markdown")
	return &markdownView{path: virtualPath, source: src}, true, nil
}

type markdownView struct {
	path   string
	source []byte
}

func (v *markdownView) Path() string { return v.path }

func (v *markdownView) RenderAsync(ctx context.Context, vc *display.ViewContext) <-chan error {
	return renderAsync(ctx, func(context.Context) error {
		return getMarkdown().Convert(v.source, vc.Writer)
	})
}
