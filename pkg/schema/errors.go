package schema

import "fmt"

// SchemaViolation reports a YAML document that does not conform to the
// manifest/interface/data-type shape: an unknown field, a malformed
// polymorphic type tag, or a structurally wrong node (e.g. a scalar where
// a mapping was required).
type SchemaViolation struct {
	Path   string
	Detail string
}

func (e *SchemaViolation) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema violation: %s", e.Detail)
	}
	return fmt.Sprintf("schema violation: %s: %s", e.Path, e.Detail)
}

func violationf(path, format string, args ...any) error {
	return &SchemaViolation{Path: path, Detail: fmt.Sprintf(format, args...)}
}
