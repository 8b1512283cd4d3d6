package hcl

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// evalContext exposes `env.NAME` for every environment variable and, for
// files on disk, `config_dir` as the directory holding the file.
func (l *Loader) evalContext(configDir string) *hcl.EvalContext {
	environ := os.Environ
	if l.Environ != nil {
		environ = l.Environ
	}

	env := make(map[string]cty.Value)
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hclIdentifier(name) {
			continue
		}
		env[name] = cty.StringVal(value)
	}

	vars := map[string]cty.Value{
		"env": cty.ObjectVal(env),
	}
	if configDir != "" {
		vars["config_dir"] = cty.StringVal(configDir)
	}
	return &hcl.EvalContext{Variables: vars}
}

// hclIdentifier reports whether name can be used in an attribute traversal.
func hclIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
