package viewengine

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/vfs"
)

var goTemplateExtensions = []string{".tmpl", ".gohtml"}

var errNoPartialRenderer = errors.New("partial called outside a view")

// GoTemplate renders html/template files.
//
// Besides the standard functions, templates can call
//
//	{{ partial "Views/Other.tmpl" .Model }}  render another template
//	{{ content .Metadata.ChildContent }}    emit rendered content
type GoTemplate struct {
	fs      vfs.FileSystem
	funcs   template.FuncMap
	locator display.ViewLocator
}

// NewGoTemplate creates the engine. funcs are made available to every
// template.
func NewGoTemplate(fs vfs.FileSystem, funcs template.FuncMap) *GoTemplate {
	e := &GoTemplate{fs: fs, funcs: template.FuncMap{}}
	for k, v := range funcs {
		e.funcs[k] = v
	}
	e.funcs["partial"] = func(string, any) (template.HTML, error) { return "", errNoPartialRenderer }
	e.funcs["content"] = func(c display.Content) template.HTML {
		if c == nil {
			return ""
		}
		return c.HTML()
	}
	e.locator = e
	return e
}

func (e *GoTemplate) setLocator(l display.ViewLocator) { e.locator = l }

func (e *GoTemplate) DetectTemplateFileNames(fileNames []string) []string {
	return detect(fileNames, goTemplateExtensions)
}

func (e *GoTemplate) FindPartialView(ctx context.Context, virtualPath string) (display.View, bool, error) {
	if !hasExtension(virtualPath, goTemplateExtensions) {
		return nil, false, nil
	}
	src, found, err := readTemplate(e.fs, virtualPath)
	if err != nil || !found {
		return nil, false, err
	}

	tmpl, err := template.New(virtualPath).Funcs(e.funcs).Parse(string(src))
	if err != nil {
		return nil, false, fmt.Errorf("parse template %q: %w", virtualPath, err)
	}
	ctxlog.FromContext(ctx).Debug("Located partial view.", "path", virtualPath, "engine", "gotemplate")
	return &goView{path: virtualPath, tmpl: tmpl, locator: e.locator}, true, nil
}

type goView struct {
	path    string
	tmpl    *template.Template
	locator display.ViewLocator
}

func (v *goView) Path() string { return v.path }

// RenderAsync executes a clone of the parsed template so the view can be
// rendered more than once.
func (v *goView) RenderAsync(ctx context.Context, vc *display.ViewContext) <-chan error {
	return renderAsync(ctx, func(ctx context.Context) error {
		tmpl, err := v.tmpl.Clone()
		if err != nil {
			return err
		}

		var helper display.PartialRenderer = display.NewHelper(vc, v.locator)
		if vc.Helper != nil {
			helper = vc.Helper
		}
		tmpl.Funcs(template.FuncMap{
			"partial": func(p string, model any) (template.HTML, error) {
				c, err := helper.Partial(ctx, p, model)
				if err != nil {
					return "", err
				}
				return c.HTML(), nil
			},
		})
		return tmpl.Execute(vc.Writer, vc.Model)
	})
}
