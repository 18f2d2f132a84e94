package codegen

import "strings"

// ConcatWords mangles one or more snake_case/kebab-case/space-separated
// fragments into a single TitleCase Go identifier, e.g.
// ConcatWords("kvs", "service") -> "KvsService" and
// ConcatWords("rust_kvs") -> "RustKvs". Each fragment is split on word
// boundaries independently and its pieces capitalized and concatenated
// with no separator — the same mangling the original build tool applies
// to manifest, interface, and command names to produce Go-legal
// identifiers.
func ConcatWords(fragments ...string) string {
	var b strings.Builder
	for _, fragment := range fragments {
		for _, word := range splitWords(fragment) {
			if word == "" {
				continue
			}
			b.WriteString(strings.ToUpper(word[:1]))
			b.WriteString(word[1:])
		}
	}
	return b.String()
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
}

// lowerFirst produces an unexported-identifier variant of a TitleCase
// name, used for local variable and parameter names derived from
// command/argument names.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
