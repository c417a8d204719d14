package view

import "strings"

type decl struct {
	prop  string
	value string
}

// parseStyle splits an inline style attribute into ordered declarations.
// Malformed fragments without a colon are dropped.
func parseStyle(raw string) []decl {
	var out []decl
	for _, part := range strings.Split(raw, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, decl{prop: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func setDecl(decls []decl, prop, value string) []decl {
	prop = strings.ToLower(strings.TrimSpace(prop))
	for i := range decls {
		if decls[i].prop == prop {
			decls[i].value = value
			return decls
		}
	}
	return append(decls, decl{prop: prop, value: value})
}

func formatStyle(decls []decl) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ")
}
