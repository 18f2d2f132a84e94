// Package codegen transforms a parsed manifest and its interfaces into a
// generated Go source file: a metadata constant, one service interface
// and one dispatch-registration function per provided slot, and a
// module constructor wiring them all onto an everest.Module.
//
// Every map the schema package hands back (manifest.Provides, an
// interface's Cmds, a command's Arguments) is iterated in sorted key
// order here, so the same manifest and interfaces always produce
// byte-identical output regardless of the nondeterministic order Go's
// map type would otherwise impose — the property the original build
// tool got for free from Rust's BTreeMap and that this package has to
// recreate explicitly with sort.Strings.
package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qwello/everest/pkg/schema"
)

// Builder mirrors the original build tool's entry point: given a module
// name, the path to its manifest, and the import path of the runtime
// package generated code should depend on, it loads the manifest and
// every interface it names and emits the generated source.
type Builder struct {
	ModuleName    string
	ManifestPath  string
	PackageName   string
	RuntimeImport string
}

// New creates a Builder. If packageName is empty, "generated" is used;
// if runtimeImport is empty, this module's own pkg/everest is used.
func New(moduleName, manifestPath, packageName, runtimeImport string) *Builder {
	if packageName == "" {
		packageName = "generated"
	}
	if runtimeImport == "" {
		runtimeImport = "github.com/qwello/everest/pkg/everest"
	}
	return &Builder{
		ModuleName:    moduleName,
		ManifestPath:  manifestPath,
		PackageName:   packageName,
		RuntimeImport: runtimeImport,
	}
}

// OutDir is the conventional location generated code is written to,
// relative to the manifest: a "generated" directory alongside it.
func (b *Builder) OutDir() string {
	return filepath.Join(filepath.Dir(b.ManifestPath), "generated")
}

// Generate loads the manifest at ManifestPath, loads the interface each
// provided slot names (from an "interfaces" directory alongside the
// manifest), and emits the generated Go source.
func (b *Builder) Generate() ([]byte, error) {
	manifest, err := schema.LoadManifestFile(b.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("codegen: load manifest: %w", err)
	}

	dir := filepath.Dir(b.ManifestPath)
	interfaces := make(map[string]*schema.Interface, len(manifest.Provides))
	for slot, entry := range manifest.Provides {
		ifacePath := filepath.Join(dir, "interfaces", entry.Interface+".yaml")
		iface, err := schema.LoadInterfaceFile(ifacePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", &InterfaceNotFoundError{Slot: slot, Interface: entry.Interface}, err)
		}
		interfaces[slot] = iface
	}

	return Emit(b.ModuleName, b.PackageName, b.RuntimeImport, manifest, interfaces)
}

// Emit is the deterministic core of the emitter: given an already-parsed
// manifest and the interfaces its slots name, it produces the generated
// Go source as a byte slice. Two calls with equal inputs always produce
// equal output, independent of Go's map iteration order.
func Emit(moduleName, packageName, runtimeImport string, manifest *schema.Manifest, interfaces map[string]*schema.Interface) ([]byte, error) {
	slots := sortedKeys(manifest.Provides)
	for _, slot := range slots {
		if _, ok := interfaces[slot]; !ok {
			return nil, &InterfaceNotFoundError{Slot: slot, Interface: manifest.Provides[slot].Interface}
		}
	}

	metadataJSON, err := emitMetadataJSON(moduleName, manifest)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by everestgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n\n", packageName)
	fmt.Fprintf(&out, "import (\n\t\"context\"\n\t\"encoding/json\"\n\t\"log/slog\"\n\n\tmqtt \"github.com/eclipse/paho.mqtt.golang\"\n\n\t\"%s\"\n)\n\n", runtimeImport)
	fmt.Fprintf(&out, "// Metadata is the module's announcement payload, published verbatim to\n// its metadata topic on startup.\nconst Metadata = `%s`\n\n", metadataJSON)

	for _, slot := range slots {
		entry := manifest.Provides[slot]
		iface := interfaces[slot]
		serviceName := ConcatWords(entry.Interface, "service")
		if err := emitServiceInterface(&out, serviceName, entry.Interface, iface); err != nil {
			return nil, err
		}
		if err := emitDispatcherRegistration(&out, serviceName, iface); err != nil {
			return nil, err
		}
	}

	if err := emitModule(&out, moduleName, slots, manifest); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func emitMetadataJSON(moduleName string, manifest *schema.Manifest) ([]byte, error) {
	type providesEntry struct {
		Interface string `json:"interface"`
	}
	type metadataDoc struct {
		Module   string                   `json:"module"`
		Provides map[string]providesEntry `json:"provides"`
	}
	doc := metadataDoc{Module: moduleName, Provides: make(map[string]providesEntry, len(manifest.Provides))}
	for slot, entry := range manifest.Provides {
		doc.Provides[slot] = providesEntry{Interface: entry.Interface}
	}
	// encoding/json sorts map keys, so this is already deterministic.
	return json.Marshal(doc)
}

func emitServiceInterface(out *bytes.Buffer, serviceName, interfaceName string, iface *schema.Interface) error {
	fmt.Fprintf(out, "// %s is the service a module provides to implement the %q interface.\ntype %s interface {\n", serviceName, interfaceName, serviceName)
	for _, cmdName := range sortedKeys(iface.Cmds) {
		cmd := iface.Cmds[cmdName]
		sig, err := methodSignature(cmdName, cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\t%s\n", sig)
	}
	fmt.Fprintf(out, "}\n\n")
	return nil
}

func methodSignature(cmdName string, cmd schema.Command) (string, error) {
	methodName := ConcatWords(cmdName)
	params, err := paramList(cmd)
	if err != nil {
		return "", err
	}
	returnType := "error"
	if cmd.Result != nil {
		resultType, err := goType(cmd.Result.Arg)
		if err != nil {
			return "", err
		}
		returnType = fmt.Sprintf("(%s, error)", resultType)
	}
	if params != "" {
		params = ", " + params
	}
	return fmt.Sprintf("%s(ctx context.Context%s) %s", methodName, params, returnType), nil
}

func paramList(cmd schema.Command) (string, error) {
	var parts []string
	for _, argName := range sortedKeys(cmd.Arguments) {
		t, err := goType(cmd.Arguments[argName].Arg)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s %s", paramName(argName), t))
	}
	return strings.Join(parts, ", "), nil
}

func paramName(argName string) string {
	name := lowerFirst(ConcatWords(argName))
	if name == "" {
		return "arg"
	}
	return name
}

func emitDispatcherRegistration(out *bytes.Buffer, serviceName string, iface *schema.Interface) error {
	registerName := "register" + serviceName
	fmt.Fprintf(out, "func %s(d *everest.SlotDispatcher, impl %s) {\n", registerName, serviceName)
	for _, cmdName := range sortedKeys(iface.Cmds) {
		cmd := iface.Cmds[cmdName]
		if err := emitCommandRegistration(out, cmdName, cmd); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "}\n\n")
	return nil
}

func emitCommandRegistration(out *bytes.Buffer, cmdName string, cmd schema.Command) error {
	methodName := ConcatWords(cmdName)
	argNames := sortedKeys(cmd.Arguments)

	fmt.Fprintf(out, "\td.Handle(%q, func(ctx context.Context, call *everest.CallData) (any, error) {\n", cmdName)
	for _, argName := range argNames {
		t, err := goType(cmd.Arguments[argName].Arg)
		if err != nil {
			return err
		}
		p := paramName(argName)
		fmt.Fprintf(out, "\t\tvar %s %s\n", p, t)
		fmt.Fprintf(out, "\t\tif err := call.DecodeArg(%q, %q, &%s); err != nil {\n\t\t\treturn nil, err\n\t\t}\n", cmdName, argName, p)
	}

	var callArgs []string
	callArgs = append(callArgs, "ctx")
	for _, argName := range argNames {
		callArgs = append(callArgs, paramName(argName))
	}
	call := fmt.Sprintf("impl.%s(%s)", methodName, strings.Join(callArgs, ", "))

	if cmd.Result == nil {
		fmt.Fprintf(out, "\t\tif err := %s; err != nil {\n\t\t\treturn nil, err\n\t\t}\n\t\treturn nil, nil\n", call)
	} else {
		fmt.Fprintf(out, "\t\tretval, err := %s\n\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n\t\treturn retval, nil\n", call)
	}
	fmt.Fprintf(out, "\t})\n")
	return nil
}

func emitModule(out *bytes.Buffer, moduleName string, slots []string, manifest *schema.Manifest) error {
	fmt.Fprintf(out, "// Module wires a caller-supplied implementation of each provided slot's\n// service onto the generic everest runtime.\ntype Module struct {\n\t*everest.Module\n}\n\n")

	var ctorParams []string
	var registrations strings.Builder
	for _, slot := range slots {
		entry := manifest.Provides[slot]
		serviceName := ConcatWords(entry.Interface, "service")
		p := paramName(slot)
		ctorParams = append(ctorParams, fmt.Sprintf("%s %s", p, serviceName))
		fmt.Fprintf(&registrations, "\t%sDispatcher := everest.NewSlotDispatcher(%q)\n\tregister%s(%sDispatcher, %s)\n\tm.Register(%sDispatcher)\n",
			p, slot, serviceName, p, p, p)
	}

	fmt.Fprintf(out, "// NewModule builds the %s module, wiring each slot's service\n// implementation onto its own command dispatcher.\nfunc NewModule(client mqtt.Client, logger *slog.Logger, %s) *Module {\n",
		moduleName, strings.Join(ctorParams, ", "))
	fmt.Fprintf(out, "\tm := everest.NewModule(%q, client, logger, json.RawMessage(Metadata))\n", moduleName)
	out.WriteString(registrations.String())
	fmt.Fprintf(out, "\treturn &Module{Module: m}\n}\n")
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
