package placement

// Kind tags the variants of Node.
type Kind int

const (
	// KindMatch identifies a *Match node.
	KindMatch Kind = iota + 1
	// KindShapeLocation identifies a *ShapeLocation node.
	KindShapeLocation
)

func (k Kind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindShapeLocation:
		return "place"
	default:
		return "unknown"
	}
}

// Node is an element of the placement tree. The set of implementations is
// closed: *Match and *ShapeLocation.
type Node interface {
	Kind() Kind
	isNode()
}

// File is the parsed form of one placement document.
type File struct {
	Nodes []Node
}

// Match is a conditional scope. Its Nodes apply only when every term holds.
type Match struct {
	Terms map[string]string
	Nodes []Node
}

func (*Match) Kind() Kind { return KindMatch }
func (*Match) isNode()    {}

// ShapeLocation places a shape type at a location expression such as
// "Content:5" or "Header:before;Wrapper=Box".
type ShapeLocation struct {
	ShapeType string
	Location  string
}

func (*ShapeLocation) Kind() Kind { return KindShapeLocation }
func (*ShapeLocation) isNode()    {}
