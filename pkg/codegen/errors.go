package codegen

import "fmt"

// UnsupportedTypeError reports a schema.Type the emitter has no Go
// mapping for. The mapping in types.go is meant to be total over the
// seven type kinds, so this indicates a new kind was added to the schema
// package without a matching case here.
type UnsupportedTypeError struct {
	Kind string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("codegen: unsupported type kind %q", e.Kind)
}

// InterfaceNotFoundError reports a provided slot naming an interface
// that could not be loaded or was never supplied to Emit.
type InterfaceNotFoundError struct {
	Slot      string
	Interface string
}

func (e *InterfaceNotFoundError) Error() string {
	return fmt.Sprintf("codegen: interface %q not found for slot %q", e.Interface, e.Slot)
}
