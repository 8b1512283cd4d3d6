package app

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/placement"
)

// BindingSummary is a printable view of one shape table binding.
type BindingSummary struct {
	Name    string `yaml:"name"`
	Shape   string `yaml:"shape"`
	Source  string `yaml:"source"`
	Feature string `yaml:"feature,omitempty"`
}

// FeatureSummary is a printable view of one enabled feature.
type FeatureSummary struct {
	ID           string   `yaml:"id"`
	Extension    string   `yaml:"extension"`
	Kind         string   `yaml:"kind"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// PlacementNode is a printable view of a placement tree node.
type PlacementNode struct {
	Match    map[string]string `yaml:"match,omitempty"`
	Shape    string            `yaml:"shape,omitempty"`
	Location string            `yaml:"location,omitempty"`
	Nodes    []PlacementNode   `yaml:"nodes,omitempty"`
}

// DescribeShapes lists the bindings of a shell's shape table.
func (a *App) DescribeShapes(shellName string) ([]BindingSummary, error) {
	sh, err := a.Shell(shellName)
	if err != nil {
		return nil, err
	}
	table, err := sh.Table(ctxlog.With(a.ctx, "shell", sh.Settings.Name))
	if err != nil {
		return nil, err
	}

	var out []BindingSummary
	for _, d := range table.Descriptors() {
		for _, b := range d.Bindings {
			s := BindingSummary{Name: b.Name, Shape: d.ShapeType, Source: b.Source}
			if b.Feature != nil {
				s.Feature = b.Feature.ID
			}
			out = append(out, s)
		}
	}
	sortBindings(out)
	return out, nil
}

// DescribeFeatures lists the features enabled for a shell in dependency
// order.
func (a *App) DescribeFeatures(shellName string) ([]FeatureSummary, error) {
	sh, err := a.Shell(shellName)
	if err != nil {
		return nil, err
	}
	features, err := sh.Features.GetEnabledFeatures(a.ctx)
	if err != nil {
		return nil, err
	}

	out := make([]FeatureSummary, 0, len(features))
	for _, f := range features {
		out = append(out, FeatureSummary{
			ID:           f.ID,
			Extension:    f.Extension.ID,
			Kind:         f.Extension.Kind.String(),
			Dependencies: f.Dependencies,
		})
	}
	return out, nil
}

// DescribePlacementFile parses a placement file from disk. It does not
// need an App.
func DescribePlacementFile(path string) ([]PlacementNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := placement.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return describeNodes(file.Nodes), nil
}

func describeNodes(nodes []placement.Node) []PlacementNode {
	out := make([]PlacementNode, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *placement.Match:
			out = append(out, PlacementNode{Match: n.Terms, Nodes: describeNodes(n.Nodes)})
		case *placement.ShapeLocation:
			out = append(out, PlacementNode{Shape: n.ShapeType, Location: n.Location})
		}
	}
	return out
}

func sortBindings(b []BindingSummary) {
	slices.SortFunc(b, func(x, y BindingSummary) int {
		return strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name))
	})
}
