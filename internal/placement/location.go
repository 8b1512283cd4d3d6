package placement

import "strings"

// Info is a parsed location expression.
//
//	Content:5;Alternate=Parts_Title_Summary;Wrapper=Box;Shape=Title
type Info struct {
	// Location is the zone and position, e.g. "Content:5". "-" hides the shape.
	Location   string
	Source     string
	Alternates []string
	Wrappers   []string
	ShapeType  string
}

// ParseLocation splits a location expression into its parts. Unknown
// options are ignored.
func ParseLocation(expr string) Info {
	parts := strings.Split(expr, ";")
	info := Info{Location: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "alternate":
			info.Alternates = append(info.Alternates, value)
		case "wrapper":
			info.Wrappers = append(info.Wrappers, value)
		case "shape":
			info.ShapeType = value
		}
	}
	return info
}

// Hidden reports whether the shape is suppressed.
func (i Info) Hidden() bool { return i.Location == "-" }

// Zone returns the zone name, the part of Location before ':'.
func (i Info) Zone() string {
	zone, _, _ := strings.Cut(i.Location, ":")
	return zone
}

// Position returns the position within the zone, the part after ':'.
func (i Info) Position() string {
	_, pos, _ := strings.Cut(i.Location, ":")
	return pos
}
