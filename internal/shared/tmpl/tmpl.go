// Package tmpl substitutes {name} placeholders in message templates.
package tmpl

import "regexp"

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Vars holds the values substituted into a template
type Vars map[string]string

// Render replaces every {name} in template with vars[name]. A name that is
// absent from vars renders as the empty string.
func Render(template string, vars Vars) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		return vars[m[1:len(m)-1]]
	})
}
