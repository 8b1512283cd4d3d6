package vfs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMapFS() *IOFS {
	return New(fstest.MapFS{
		"Modules/Orchard.Title/Views/Parts.Title.tmpl":   {Data: []byte("title")},
		"Modules/Orchard.Title/Views/Items/Content.tmpl": {Data: []byte("content")},
		"Modules/Orchard.Title/Placement.info":           {Data: []byte("<Placement/>")},
		"Themes/TheAdmin/Views/Layout.tmpl":              {Data: []byte("layout")},
	})
}

func TestIOFS_ExistsAndDirectoryExists(t *testing.T) {
	f := newMapFS()

	assert.True(t, f.Exists("Modules/Orchard.Title/Placement.info"))
	assert.True(t, f.Exists("~/Modules/Orchard.Title/Placement.info"))
	assert.False(t, f.Exists("Modules/Orchard.Title/Views"), "a directory is not a file")
	assert.False(t, f.Exists("Modules/Missing/Placement.info"))

	assert.True(t, f.DirectoryExists("Modules/Orchard.Title/Views"))
	assert.False(t, f.DirectoryExists("Modules/Orchard.Title/Placement.info"))
	assert.False(t, f.DirectoryExists("Modules/Missing"))
}

func TestIOFS_ListFileNames(t *testing.T) {
	f := newMapFS()

	names, err := f.ListFileNames("Modules/Orchard.Title/Views")
	require.NoError(t, err)
	assert.Equal(t, []string{"Parts.Title.tmpl"}, names, "listing is not recursive and skips directories")

	dirs, err := f.ListDirectoryNames("Modules")
	require.NoError(t, err)
	assert.Equal(t, []string{"Orchard.Title"}, dirs)

	_, err = f.ListFileNames("Modules/Missing")
	require.Error(t, err)
	assert.True(t, IsNotExist(err))
}

func TestIOFS_OpenRead(t *testing.T) {
	f := newMapFS()

	rc, err := f.OpenRead("Themes/TheAdmin/Views/Layout.tmpl")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "layout", string(data))
}

func TestIOFS_CombineCannotEscapeRoot(t *testing.T) {
	f := newMapFS()
	assert.Equal(t, "Modules/Orchard.Title", f.Combine("Modules", "Orchard.Title"))
	assert.Equal(t, "Views", f.Combine("", "Views"))
	assert.Equal(t, "Modules/Orchard.Title/Placement.info", clean("../../Modules/Orchard.Title/Placement.info"))
	assert.Equal(t, ".", clean(""))
}

func TestDisk_PhysicalPath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Modules", "A", "Views"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Modules", "A", "Views", "X.tmpl"), []byte("x"), 0o644))

	disk, err := NewDisk(root)
	require.NoError(t, err)
	assert.True(t, disk.Exists("Modules/A/Views/X.tmpl"))

	physical, ok := disk.PhysicalPath("Modules/A/Views")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Modules", "A", "Views"), physical)

	_, ok = newMapFS().PhysicalPath("Modules")
	assert.False(t, ok, "in-memory file systems have no physical location")
}

func TestDisk_ListFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	views := filepath.Join(root, "Modules", "A", "Views")
	shared := filepath.Join(root, "Shared")
	require.NoError(t, os.MkdirAll(views, 0o755))
	require.NoError(t, os.MkdirAll(shared, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(shared, "Title.tmpl"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(views, "Body.tmpl"), []byte("x"), 0o644))

	links := map[string]string{
		"Title.tmpl":   filepath.Join("..", "..", "..", "Shared", "Title.tmpl"),
		"Parts":        filepath.Join("..", "..", "..", "Shared"),
		"Missing.tmpl": "Nowhere.tmpl",
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(views, name)); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
	}

	disk, err := NewDisk(root)
	require.NoError(t, err)

	names, err := disk.ListFileNames("Modules/A/Views")
	require.NoError(t, err)
	assert.Equal(t, []string{"Body.tmpl", "Title.tmpl"}, names)
	assert.True(t, disk.Exists("Modules/A/Views/Title.tmpl"), "listing and Exists agree")

	dirs, err := disk.ListDirectoryNames("Modules/A/Views")
	require.NoError(t, err)
	assert.Equal(t, []string{"Parts"}, dirs)
}
