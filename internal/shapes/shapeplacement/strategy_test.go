package shapeplacement

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/690486439/Orchard2/internal/extensions"
	"github.com/690486439/Orchard2/internal/placement"
	"github.com/690486439/Orchard2/internal/shapes"
	"github.com/690486439/Orchard2/internal/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFeatures []*extensions.FeatureDescriptor

func (s staticFeatures) GetEnabledFeatures(context.Context) ([]*extensions.FeatureDescriptor, error) {
	return s, nil
}

func extension(location, id string, featureIDs ...string) []*extensions.FeatureDescriptor {
	ext := &extensions.ExtensionDescriptor{ID: id, Location: location}
	for _, fid := range featureIDs {
		ext.Features = append(ext.Features, &extensions.FeatureDescriptor{ID: fid, Extension: ext})
	}
	return ext.Features
}

func TestStrategy_Discover(t *testing.T) {
	files := fstest.MapFS{
		"Modules/Core/Placement.info": {Data: []byte(`
<Placement>
  <Place Parts_Title="Header:1"/>
  <Match DisplayType="Summary">
    <Place Parts_Title="Content:5;Alternate=Parts_Title_Summary"/>
  </Match>
</Placement>`)},
		"Themes/TheTheme/Placement.info": {Data: []byte(`
<Placement>
  <Match ContentType="Blog*">
    <Place Parts_Title="-"/>
  </Match>
</Placement>`)},
	}
	fs := vfs.New(files)

	features := append(extension("Modules", "Core", "Core", "Core.Extra"), extension("Modules", "NoPlacement", "NoPlacement")...)
	features = append(features, extension("Themes", "TheTheme", "TheTheme")...)

	s := New(staticFeatures(features), fs, placement.NewCache(fs, placement.NewParser(fs), nil))
	b := shapes.NewTableBuilder()
	require.NoError(t, s.Discover(context.Background(), b))
	assert.Equal(t, 3, b.Len())

	table := b.Build(features)

	testCases := []struct {
		name     string
		ctx      placement.Context
		location string
	}{
		{name: "unconditional", ctx: placement.Context{DisplayType: "Detail"}, location: "Header:1"},
		{name: "match scope", ctx: placement.Context{DisplayType: "Summary"}, location: "Content:5"},
		{name: "theme overrides", ctx: placement.Context{DisplayType: "Summary", ContentType: "BlogPost"}, location: "-"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info, ok := table.Place("Parts_Title", tc.ctx)
			require.True(t, ok)
			assert.Equal(t, tc.location, info.Location)
		})
	}

	info, _ := table.Place("parts_title", placement.Context{DisplayType: "Summary"})
	assert.Equal(t, []string{"Parts_Title_Summary"}, info.Alternates)
	assert.Equal(t, "Modules/Core/Placement.info", info.Source)

	d, ok := table.Descriptor("parts_title")
	require.True(t, ok)
	assert.Equal(t, "TheTheme", d.Feature.ID)
}

func TestStrategy_MalformedFile(t *testing.T) {
	files := fstest.MapFS{"Modules/Core/Placement.info": {Data: []byte(`<Placement>`)}}
	fs := vfs.New(files)

	s := New(staticFeatures(extension("Modules", "Core", "Core")), fs, placement.NewCache(fs, placement.NewParser(fs), nil))
	err := s.Discover(context.Background(), shapes.NewTableBuilder())

	var parseErr *placement.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "Modules/Core/Placement.info", parseErr.Path)
}
