package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertShellComposed checks the log output within a HarnessResult to
// confirm that a shell context was created.
func AssertShellComposed(t *testing.T, result *HarnessResult, shell string) {
	t.Helper()

	expected := fmt.Sprintf("shell=%s", shell)
	for _, line := range strings.Split(result.LogOutput, "\n") {
		if strings.Contains(line, "Shell context created.") && strings.Contains(line, expected) {
			return
		}
	}
	require.Fail(t, "shell was not composed", "expected a 'Shell context created.' log line for shell %q", shell)
}

// Fixture returns a host directory with two modules and a theme:
//
//	Modules/Blog     Views/Parts/Title.tmpl, Views/Frame.tmpl, Placement.info
//	Modules/Notes    Views/Parts/Summary.md
//	Themes/Dark      depends on Blog, overrides Parts/Title.tmpl
//
// and two shells, Default (Dark) and Notes (Notes, windows-1252).
func Fixture() map[string]string {
	return map[string]string{
		"orchard.hcl": `
log_level = "debug"

shell "Default" {
  features = ["Dark"]
}

shell "Notes" {
  features = ["Notes"]
  encoding = "windows-1252"
}
`,
		"extensions/Modules/Blog/module.hcl": `
name    = "Blog"
version = "1.0.0"

feature "Blog.Comments" {
  dependencies = ["Blog"]
}
`,
		"extensions/Modules/Blog/Views/Parts/Title.tmpl": `<h1>{{.Properties.title}}</h1>`,
		"extensions/Modules/Blog/Views/Frame.tmpl":       `<header>{{content .Metadata.ChildContent}}</header>`,
		"extensions/Modules/Blog/Placement.info": `<Placement>
  <Place Parts_Title="Header:1;Wrapper=Frame"/>
  <Match DisplayType="Summary">
    <Place Parts_Title="-"/>
  </Match>
</Placement>`,
		"extensions/Modules/Notes/module.hcl":             `name = "Notes"`,
		"extensions/Modules/Notes/Views/Parts/Summary.md": "Café *notes*\n",
		"extensions/Themes/Dark/theme.hcl":                `dependencies = ["Blog"]`,
		"extensions/Themes/Dark/Views/Parts/Title.tmpl":   `<h1 class="dark">{{.Properties.title}}</h1>`,
	}
}
