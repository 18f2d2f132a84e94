package codegen

import "github.com/qwello/everest/pkg/schema"

// goType maps a schema.Argument to the Go type the generated service
// interface and dispatch glue use for it.
//
// The original generator only handled Boolean and String, leaving every
// other single type an unimplemented placeholder. This mapping is total
// over the seven type kinds plus the union case, since a generator that
// silently drops an argument type is a correctness bug, not a
// simplification: Number and Integer map to Go's usual JSON-decode
// targets (float64, int64), Array and Object map to the untyped
// encoding/json containers ([]any, map[string]any), Null has no
// meaningful static type and maps to any, and a type union (Multiple)
// is left as opaque JSON (any) since no single Go type could represent
// it without a constraint the schema doesn't express.
func goType(arg schema.Argument) (string, error) {
	if !arg.IsSingle() {
		return "any", nil
	}
	return goTypeForKind(arg.Single.Kind)
}

func goTypeForKind(kind schema.TypeKind) (string, error) {
	switch kind {
	case schema.KindBoolean:
		return "bool", nil
	case schema.KindString:
		return "string", nil
	case schema.KindNumber:
		return "float64", nil
	case schema.KindInteger:
		return "int64", nil
	case schema.KindArray:
		return "[]any", nil
	case schema.KindObject:
		return "map[string]any", nil
	case schema.KindNull:
		return "any", nil
	default:
		return "", &UnsupportedTypeError{Kind: string(kind)}
	}
}
