package extensions

// Kind distinguishes modules from themes.
type Kind int

const (
	KindModule Kind = iota
	KindTheme
)

func (k Kind) String() string {
	if k == KindTheme {
		return "theme"
	}
	return "module"
}

// Well-known extension locations, relative to the file system root.
const (
	ModulesLocation = "Modules"
	ThemesLocation  = "Themes"
)

// ExtensionDescriptor describes one installed module or theme.
type ExtensionDescriptor struct {
	ID          string
	Location    string
	Kind        Kind
	Name        string
	Description string
	Version     string
	Author      string
	Features    []*FeatureDescriptor
}

// FeatureDescriptor describes an independently enableable unit of an
// extension.
type FeatureDescriptor struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Dependencies []string
	Extension    *ExtensionDescriptor
}
