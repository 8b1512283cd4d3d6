package shapetemplate

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/extensions"
	"github.com/690486439/Orchard2/internal/shapes"
	"github.com/690486439/Orchard2/internal/shapes/harvest"
	"github.com/690486439/Orchard2/internal/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFS records listings and can fail them for one path.
type countingFS struct {
	vfs.FileSystem
	mu       sync.Mutex
	listed   map[string]int
	failPath string
}

func (c *countingFS) ListFileNames(p string) ([]string, error) {
	c.mu.Lock()
	c.listed[p]++
	c.mu.Unlock()
	if p == c.failPath {
		return nil, fs.ErrPermission
	}
	return c.FileSystem.ListFileNames(p)
}

type physicalFS struct{ *countingFS }

func (physicalFS) PhysicalPath(p string) (string, bool) { return "/disk/" + p, true }

type staticFeatures []*extensions.FeatureDescriptor

func (s staticFeatures) GetEnabledFeatures(context.Context) ([]*extensions.FeatureDescriptor, error) {
	return s, nil
}

type extSpec struct {
	id       string
	location string
	features []string
}

// newExtensions builds descriptors for specs and returns every feature in
// declaration order.
func newExtensions(specs ...extSpec) []*extensions.FeatureDescriptor {
	var all []*extensions.FeatureDescriptor
	for _, spec := range specs {
		ext := &extensions.ExtensionDescriptor{ID: spec.id, Location: spec.location}
		for _, id := range spec.features {
			f := &extensions.FeatureDescriptor{ID: id, Extension: ext}
			ext.Features = append(ext.Features, f)
			all = append(all, f)
		}
	}
	return all
}

type recordingRenderer struct{ paths []string }

func (r *recordingRenderer) Render(_ context.Context, _ *display.DisplayContext, p string) (display.Content, error) {
	r.paths = append(r.paths, p)
	return display.HTMLString(p), nil
}

type suffixDetector string

func (d suffixDetector) DetectTemplateFileNames(names []string) []string {
	var out []string
	for _, n := range names {
		if len(n) > len(d) && n[len(n)-len(d):] == string(d) {
			out = append(out, n)
		}
	}
	return out
}

func newStrategy(t *testing.T, features []*extensions.FeatureDescriptor, files fstest.MapFS) (*Strategy, *countingFS, *recordingRenderer) {
	t.Helper()
	cfs := &countingFS{FileSystem: vfs.New(files), listed: map[string]int{}}
	r := &recordingRenderer{}
	s := New(staticFeatures(features), cfs,
		[]harvest.Harvester{harvest.BasicHarvester{}},
		[]Detector{suffixDetector(".tmpl"), suffixDetector(".md")},
		r)
	return s, cfs, r
}

var templates = fstest.MapFS{
	"Modules/Core/Views/Title.tmpl":         {},
	"Modules/Core/Views/Parts/Body.tmpl":    {},
	"Modules/Core/Views/Parts/notes.txt":    {},
	"Modules/Core/Views/About.md":           {},
	"Themes/TheTheme/Views/Title.tmpl":      {},
	"Themes/TheTheme/Views/Items/Page.tmpl": {},
}

func table(t *testing.T, b *shapes.TableBuilder, features []*extensions.FeatureDescriptor) *shapes.Table {
	t.Helper()
	return b.Build(features)
}

func TestDiscover_NoExtensions(t *testing.T) {
	s, cfs, _ := newStrategy(t, nil, templates)
	b := shapes.NewTableBuilder()

	require.NoError(t, s.Discover(context.Background(), b))
	assert.Zero(t, b.Len())
	assert.Empty(t, cfs.listed)
}

func TestDiscover_BindsTemplates(t *testing.T) {
	features := newExtensions(
		extSpec{id: "Core", location: "Modules", features: []string{"Core"}},
		extSpec{id: "TheTheme", location: "Themes", features: []string{"TheTheme"}},
	)
	s, _, r := newStrategy(t, features, templates)
	b := shapes.NewTableBuilder()

	require.NoError(t, s.Discover(context.Background(), b))

	tbl := table(t, b, features)
	var names, sources []string
	for _, binding := range tbl.Bindings() {
		names = append(names, binding.Name)
		sources = append(sources, binding.Source)
	}
	assert.Equal(t, []string{"about", "page", "parts_body", "title"}, names)
	assert.Equal(t, []string{
		"Modules/Core/Views/About.md",
		"Themes/TheTheme/Views/Items/Page.tmpl",
		"Modules/Core/Views/Parts/Body.tmpl",
		"Themes/TheTheme/Views/Title.tmpl",
	}, sources, "the theme's title overrides the module's")
	assert.Equal(t, 5, b.Len())

	render, ok := tbl.Binding("parts_body")
	require.True(t, ok)
	content, err := render(context.Background(), &display.DisplayContext{})
	require.NoError(t, err)
	assert.Equal(t, "Modules/Core/Views/Parts/Body.tmpl", display.String(content))
	assert.Equal(t, []string{"Modules/Core/Views/Parts/Body.tmpl"}, r.paths)
}

func TestDiscover_ExtensionScannedOnce(t *testing.T) {
	features := newExtensions(extSpec{id: "Core", location: "Modules", features: []string{"Core", "Core.Extra", "Core.More"}})
	s, cfs, _ := newStrategy(t, features, templates)
	b := shapes.NewTableBuilder()

	require.NoError(t, s.Discover(context.Background(), b))

	for p, n := range cfs.listed {
		assert.Equal(t, 1, n, "listed %s", p)
	}
	assert.Equal(t, map[string]int{"Modules/Core/Views": 1, "Modules/Core/Views/Parts": 1}, cfs.listed)

	// A second pass starts from a fresh dedupe set.
	require.NoError(t, s.Discover(context.Background(), shapes.NewTableBuilder()))
	assert.Equal(t, 2, cfs.listed["Modules/Core/Views"])
}

func TestDiscover_NamesakeFeatureOnly(t *testing.T) {
	features := newExtensions(extSpec{id: "Core", location: "Modules", features: []string{"Core", "Core.Extra"}})
	s, _, _ := newStrategy(t, features, templates)
	b := shapes.NewTableBuilder()

	require.NoError(t, s.Discover(context.Background(), b))

	assert.Equal(t, 3, b.Len(), "one binding per template, not per feature")
	for _, binding := range table(t, b, features).Bindings() {
		assert.Equal(t, "Core", binding.Feature.ID)
	}

	// Without a namesake feature nothing is bound.
	features = newExtensions(extSpec{id: "Core", location: "Modules", features: []string{"Core.Extra"}})
	s, _, _ = newStrategy(t, features, templates)
	b = shapes.NewTableBuilder()
	require.NoError(t, s.Discover(context.Background(), b))
	assert.Zero(t, b.Len())
}

func TestDiscover_MissingDirectories(t *testing.T) {
	features := newExtensions(extSpec{id: "Empty", location: "Modules", features: []string{"Empty"}})
	s, cfs, _ := newStrategy(t, features, templates)
	b := shapes.NewTableBuilder()

	require.NoError(t, s.Discover(context.Background(), b))
	assert.Zero(t, b.Len())
	assert.Empty(t, cfs.listed)
}

func TestDiscover_ListingFailureAborts(t *testing.T) {
	features := newExtensions(
		extSpec{id: "Core", location: "Modules", features: []string{"Core"}},
		extSpec{id: "TheTheme", location: "Themes", features: []string{"TheTheme"}},
	)
	s, cfs, _ := newStrategy(t, features, templates)
	cfs.failPath = "Themes/TheTheme/Views/Items"
	b := shapes.NewTableBuilder()

	err := s.Discover(context.Background(), b)

	var discoveryErr *DiscoveryError
	require.ErrorAs(t, err, &discoveryErr)
	assert.Equal(t, "TheTheme", discoveryErr.Extension)
	assert.Equal(t, "Themes/TheTheme/Views/Items", discoveryErr.Path)
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Zero(t, b.Len(), "nothing is registered when the pass fails")
}

type fakeWatcher struct {
	dirs []string
	keys map[string]map[string]bool
}

func (w *fakeWatcher) Watch(dir, key string, _ func()) error {
	w.dirs = append(w.dirs, dir)
	if w.keys == nil {
		w.keys = make(map[string]map[string]bool)
	}
	if w.keys[dir] == nil {
		w.keys[dir] = make(map[string]bool)
	}
	w.keys[dir][key] = true
	return nil
}

func TestDiscover_Monitoring(t *testing.T) {
	features := newExtensions(extSpec{id: "Core", location: "Modules", features: []string{"Core"}})

	testCases := []struct {
		name     string
		disable  bool
		physical bool
		want     []string
	}{
		{name: "watches scanned directories", physical: true, want: []string{"/disk/Modules/Core/Views", "/disk/Modules/Core/Views/Parts"}},
		{name: "disabled", disable: true, physical: true},
		{name: "not disk backed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, cfs, _ := newStrategy(t, features, templates)
			if tc.physical {
				s.fs = physicalFS{cfs}
			}
			w := &fakeWatcher{}
			s.Monitor(w, "shell:Default", func() {})
			s.DisableMonitoring = tc.disable

			require.NoError(t, s.Discover(context.Background(), shapes.NewTableBuilder()))
			assert.Equal(t, tc.want, w.dirs)
		})
	}
}

// prefixHarvester binds every file under its sub-paths to a prefixed shape
// type.
type prefixHarvester struct {
	prefix   string
	subPaths []string
}

func (p prefixHarvester) SubPaths() []string { return p.subPaths }

func (p prefixHarvester) HarvestShape(info harvest.ShapeInfo) []harvest.ShapeHit {
	return []harvest.ShapeHit{{ShapeType: p.prefix + "_" + info.FileName}}
}

func TestDiscover_FilesGoToTheirOwnHarvester(t *testing.T) {
	features := newExtensions(extSpec{id: "TheTheme", location: "Themes", features: []string{"TheTheme"}})

	testCases := []struct {
		name  string
		extra harvest.Harvester
		want  []string
	}{
		{
			name:  "no sub-paths binds nothing",
			extra: prefixHarvester{prefix: "alt"},
			want:  []string{"page", "title"},
		},
		{
			name:  "only files under its own sub-path",
			extra: prefixHarvester{prefix: "alt", subPaths: []string{"Views/Items"}},
			want:  []string{"alt_Page", "page", "title"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _, _ := newStrategy(t, features, templates)
			s.harvesters = append(s.harvesters, tc.extra)
			b := shapes.NewTableBuilder()

			require.NoError(t, s.Discover(context.Background(), b))

			var names []string
			for _, binding := range table(t, b, features).Bindings() {
				names = append(names, binding.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestDiscover_SharedSubPathListedOnce(t *testing.T) {
	features := newExtensions(extSpec{id: "Core", location: "Modules", features: []string{"Core"}})
	files := fstest.MapFS{"Modules/Core/Views/Title.tmpl": {}}
	s, cfs, _ := newStrategy(t, features, files)
	s.harvesters = []harvest.Harvester{
		prefixHarvester{prefix: "a", subPaths: []string{"Views"}},
		prefixHarvester{prefix: "b", subPaths: []string{"Views"}},
	}
	b := shapes.NewTableBuilder()

	require.NoError(t, s.Discover(context.Background(), b))

	assert.Equal(t, 2, b.Len(), "one binding per harvester")
	assert.Equal(t, map[string]int{"Modules/Core/Views": 1}, cfs.listed)
	var names []string
	for _, binding := range table(t, b, features).Bindings() {
		names = append(names, binding.Name)
	}
	assert.Equal(t, []string{"a_Title", "b_Title"}, names)
}

func TestDiscover_RebuildReusesWatchKey(t *testing.T) {
	features := newExtensions(extSpec{id: "Core", location: "Modules", features: []string{"Core"}})
	s, cfs, _ := newStrategy(t, features, templates)
	s.fs = physicalFS{cfs}
	w := &fakeWatcher{}
	s.Monitor(w, "shell:Default", func() {})

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Discover(context.Background(), shapes.NewTableBuilder()))
	}

	assert.Equal(t, map[string]map[string]bool{
		"/disk/Modules/Core/Views":       {"shell:Default": true},
		"/disk/Modules/Core/Views/Parts": {"shell:Default": true},
	}, w.keys)
}
