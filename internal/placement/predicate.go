package placement

import (
	"sort"
	"strings"
)

// Context is the runtime information a shape is placed with.
type Context struct {
	ContentType    string
	Stereotype     string
	DisplayType    string
	Differentiator string
	Path           string
	Custom         map[string]string
}

// Predicate decides whether a placement rule applies to a shape.
type Predicate func(Context) bool

// Always is the predicate of rules outside any Match scope.
func Always(Context) bool { return true }

// BuildPredicate returns a predicate that holds when parent holds and every
// term matches. Term names are case-insensitive.
func BuildPredicate(terms map[string]string, parent Predicate) Predicate {
	if parent == nil {
		parent = Always
	}
	if len(terms) == 0 {
		return parent
	}

	keys := make([]string, 0, len(terms))
	for k := range terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	preds := make([]Predicate, 0, len(keys))
	for _, k := range keys {
		preds = append(preds, termPredicate(k, terms[k]))
	}

	return func(ctx Context) bool {
		if !parent(ctx) {
			return false
		}
		for _, p := range preds {
			if !p(ctx) {
				return false
			}
		}
		return true
	}
}

func termPredicate(term, value string) Predicate {
	switch strings.ToLower(term) {
	case "contenttype":
		if prefix, ok := strings.CutSuffix(value, "*"); ok {
			return func(ctx Context) bool { return hasPrefixFold(ctx.ContentType, prefix) }
		}
		return func(ctx Context) bool {
			return strings.EqualFold(ctx.ContentType, value) || strings.EqualFold(ctx.Stereotype, value)
		}
	case "displaytype":
		return func(ctx Context) bool { return strings.EqualFold(ctx.DisplayType, value) }
	case "differentiator":
		return func(ctx Context) bool { return strings.EqualFold(ctx.Differentiator, value) }
	case "path":
		want := normalizePath(value)
		if prefix, ok := strings.CutSuffix(want, "*"); ok {
			return func(ctx Context) bool { return hasPrefixFold(normalizePath(ctx.Path), prefix) }
		}
		return func(ctx Context) bool { return strings.EqualFold(normalizePath(ctx.Path), want) }
	default:
		return func(ctx Context) bool {
			for k, v := range ctx.Custom {
				if strings.EqualFold(k, term) {
					return strings.EqualFold(v, value)
				}
			}
			return false
		}
	}
}

// normalizePath makes "~/blog/", "blog" and "/blog" compare equal.
func normalizePath(p string) string {
	p = strings.TrimPrefix(strings.TrimSpace(p), "~")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Walk visits every shape location in file depth-first, in document order,
// together with the predicate formed by all enclosing Match scopes.
func Walk(file *File, visit func(loc *ShapeLocation, pred Predicate)) {
	if file == nil {
		return
	}
	walk(file.Nodes, Always, visit)
}

func walk(nodes []Node, pred Predicate, visit func(*ShapeLocation, Predicate)) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Match:
			walk(n.Nodes, BuildPredicate(n.Terms, pred), visit)
		case *ShapeLocation:
			visit(n, pred)
		}
	}
}
