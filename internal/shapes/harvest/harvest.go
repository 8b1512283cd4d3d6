// Package harvest turns candidate template files into shape types.
package harvest

import "strings"

// ShapeInfo describes one candidate template file.
type ShapeInfo struct {
	// SubPath is the harvester sub-path the file was found in, e.g.
	// "Views/Parts".
	SubPath string
	// FileName is the file name without its extension.
	FileName string
	// TemplateVirtualPath is the full virtual path of the file.
	TemplateVirtualPath string
}

// ShapeHit is a shape type a harvester decided a file binds to.
type ShapeHit struct {
	ShapeType   string
	DisplayType string
}

// Harvester proposes shape bindings from template files found under its
// sub-paths. HarvestShape must be a pure function of its input.
type Harvester interface {
	SubPaths() []string
	HarvestShape(info ShapeInfo) []ShapeHit
}

// BasicHarvester derives shape types from file names.
//
//	Views/Title.tmpl                   -> title
//	Views/Parts/Title.Summary.tmpl     -> parts_title_summary
//	Views/Parts/Title-Blog.tmpl        -> parts_title__blog
//	Views/Parts/Title-Blog.Detail.tmpl -> parts_title_detail__blog
//	Views/Items/Content.tmpl           -> content
type BasicHarvester struct{}

func (BasicHarvester) SubPaths() []string {
	return []string{"Views", "Views/Items", "Views/Parts", "Views/Fields"}
}

func (BasicHarvester) HarvestShape(info ShapeInfo) []ShapeHit {
	lastDash := strings.LastIndex(info.FileName, "-")
	lastDot := strings.LastIndex(info.FileName, ".")
	if lastDot <= 0 || lastDot < lastDash {
		return []ShapeHit{{ShapeType: adjust(info.SubPath, info.FileName, "")}}
	}

	displayType := info.FileName[lastDot+1:]
	return []ShapeHit{{
		ShapeType:   adjust(info.SubPath, info.FileName[:lastDot], displayType),
		DisplayType: displayType,
	}}
}

var separators = strings.NewReplacer("--", "__", "-", "__", ".", "_")

// adjust builds a canonical shape type. Shape types never contain '-' or
// '.', and the display type goes before the first "__".
func adjust(subPath, fileName, displayType string) string {
	leader := ""
	if rest, ok := strings.CutPrefix(subPath, "Views/"); ok && subPath != "Views/Items" {
		leader = rest + "_"
	}

	shapeType := leader + separators.Replace(fileName)
	if displayType == "" {
		return strings.ToLower(shapeType)
	}

	sep := strings.Index(shapeType, "__")
	if sep <= 0 {
		return strings.ToLower(shapeType + "_" + displayType)
	}
	return strings.ToLower(shapeType[:sep] + "_" + displayType + shapeType[sep:])
}
