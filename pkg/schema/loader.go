package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// mappingFields walks a YAML mapping node and returns its direct children
// keyed by field name, rejecting any key not present in known. This is
// the strict-decode primitive every struct in this package is built on:
// yaml.v3's Decoder.KnownFields only applies to a top-level Decode call,
// not to the ad hoc Node.Decode calls a custom union decoder like
// decodeVariable must make, so unknown-field rejection is done by hand
// here instead.
func mappingFields(node *yaml.Node, path string, known []string) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, violationf(path, "expected a mapping, got %s", nodeKindName(node.Kind))
	}
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if !knownSet[key] {
			return nil, violationf(path, "unknown field %q", key)
		}
		fields[key] = node.Content[i+1]
	}
	return fields, nil
}

// findField looks up a key in a mapping node without validating the rest
// of its keys — used to peek at a discriminator field (like "type")
// before the full known-field set for that node is known.
func findField(node *yaml.Node, key string) (*yaml.Node, bool) {
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1], true
		}
	}
	return nil, false
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

func decodeScalar(node *yaml.Node, path string, out any) error {
	if err := node.Decode(out); err != nil {
		return violationf(path, "%v", err)
	}
	return nil
}

func parseRoot(data []byte, path string) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, violationf(path, "invalid yaml: %v", err)
	}
	if len(root.Content) == 0 {
		return nil, violationf(path, "empty document")
	}
	return root.Content[0], nil
}

// LoadManifest decodes a manifest document from r.
func LoadManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	root, err := parseRoot(data, "manifest")
	if err != nil {
		return nil, err
	}
	return decodeManifest(root, "manifest")
}

// LoadManifestFile decodes the manifest document at path.
func LoadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()
	return LoadManifest(f)
}

// LoadInterface decodes an interface document from r.
func LoadInterface(r io.Reader) (*Interface, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read interface: %w", err)
	}
	root, err := parseRoot(data, "interface")
	if err != nil {
		return nil, err
	}
	return decodeInterface(root, "interface")
}

// LoadInterfaceFile decodes the interface document at path.
func LoadInterfaceFile(path string) (*Interface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open interface %s: %w", path, err)
	}
	defer f.Close()
	return LoadInterface(f)
}

// LoadDataTypes decodes a data-types document from r.
func LoadDataTypes(r io.Reader) (*DataTypes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read data types: %w", err)
	}
	root, err := parseRoot(data, "types")
	if err != nil {
		return nil, err
	}
	return decodeDataTypes(root, "types")
}

// LoadDataTypesFile decodes the data-types document at path.
func LoadDataTypesFile(path string) (*DataTypes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open types %s: %w", path, err)
	}
	defer f.Close()
	return LoadDataTypes(f)
}

func decodeManifest(node *yaml.Node, path string) (*Manifest, error) {
	fields, err := mappingFields(node, path, []string{"description", "provides", "metadata"})
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if n, ok := fields["description"]; ok {
		if err := decodeScalar(n, path+".description", &m.Description); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["provides"]; ok {
		if n.Kind != yaml.MappingNode {
			return nil, violationf(path+".provides", "expected a mapping, got %s", nodeKindName(n.Kind))
		}
		m.Provides = make(map[string]ProvidesEntry, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			slot := n.Content[i].Value
			entryPath := fmt.Sprintf("%s.provides.%s", path, slot)
			entry, err := decodeProvidesEntry(n.Content[i+1], entryPath)
			if err != nil {
				return nil, err
			}
			m.Provides[slot] = *entry
		}
	}
	if n, ok := fields["metadata"]; ok {
		meta, err := decodeMetadata(n, path+".metadata")
		if err != nil {
			return nil, err
		}
		m.Metadata = *meta
	}
	return m, nil
}

func decodeProvidesEntry(node *yaml.Node, path string) (*ProvidesEntry, error) {
	fields, err := mappingFields(node, path, []string{"interface", "description"})
	if err != nil {
		return nil, err
	}
	n, ok := fields["interface"]
	if !ok {
		return nil, violationf(path, "missing required field %q", "interface")
	}
	e := &ProvidesEntry{}
	if err := decodeScalar(n, path+".interface", &e.Interface); err != nil {
		return nil, err
	}
	if n, ok := fields["description"]; ok {
		if err := decodeScalar(n, path+".description", &e.Description); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func decodeMetadata(node *yaml.Node, path string) (*ManifestMetadata, error) {
	fields, err := mappingFields(node, path, []string{"license", "authors"})
	if err != nil {
		return nil, err
	}
	m := &ManifestMetadata{}
	if n, ok := fields["license"]; ok {
		if err := decodeScalar(n, path+".license", &m.License); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["authors"]; ok {
		if err := decodeScalar(n, path+".authors", &m.Authors); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeInterface(node *yaml.Node, path string) (*Interface, error) {
	fields, err := mappingFields(node, path, []string{"description", "cmds", "vars"})
	if err != nil {
		return nil, err
	}
	iface := &Interface{}
	if n, ok := fields["description"]; ok {
		if err := decodeScalar(n, path+".description", &iface.Description); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["cmds"]; ok {
		if n.Kind != yaml.MappingNode {
			return nil, violationf(path+".cmds", "expected a mapping, got %s", nodeKindName(n.Kind))
		}
		iface.Cmds = make(map[string]Command, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			name := n.Content[i].Value
			cmdPath := fmt.Sprintf("%s.cmds.%s", path, name)
			cmd, err := decodeCommand(n.Content[i+1], cmdPath)
			if err != nil {
				return nil, err
			}
			iface.Cmds[name] = *cmd
		}
	}
	if n, ok := fields["vars"]; ok {
		if n.Kind != yaml.MappingNode {
			return nil, violationf(path+".vars", "expected a mapping, got %s", nodeKindName(n.Kind))
		}
		iface.Vars = make(map[string]Variable, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			name := n.Content[i].Value
			varPath := fmt.Sprintf("%s.vars.%s", path, name)
			v, err := decodeVariable(n.Content[i+1], varPath)
			if err != nil {
				return nil, err
			}
			iface.Vars[name] = *v
		}
	}
	return iface, nil
}

func decodeCommand(node *yaml.Node, path string) (*Command, error) {
	fields, err := mappingFields(node, path, []string{"description", "arguments", "result"})
	if err != nil {
		return nil, err
	}
	cmd := &Command{}
	if n, ok := fields["description"]; ok {
		if err := decodeScalar(n, path+".description", &cmd.Description); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["arguments"]; ok {
		if n.Kind != yaml.MappingNode {
			return nil, violationf(path+".arguments", "expected a mapping, got %s", nodeKindName(n.Kind))
		}
		cmd.Arguments = make(map[string]Variable, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			name := n.Content[i].Value
			argPath := fmt.Sprintf("%s.arguments.%s", path, name)
			v, err := decodeVariable(n.Content[i+1], argPath)
			if err != nil {
				return nil, err
			}
			cmd.Arguments[name] = *v
		}
	}
	if n, ok := fields["result"]; ok {
		v, err := decodeVariable(n, path+".result")
		if err != nil {
			return nil, err
		}
		cmd.Result = v
	}
	return cmd, nil
}

func decodeDataTypes(node *yaml.Node, path string) (*DataTypes, error) {
	fields, err := mappingFields(node, path, []string{"description", "types"})
	if err != nil {
		return nil, err
	}
	dt := &DataTypes{}
	if n, ok := fields["description"]; ok {
		if err := decodeScalar(n, path+".description", &dt.Description); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["types"]; ok {
		if n.Kind != yaml.MappingNode {
			return nil, violationf(path+".types", "expected a mapping, got %s", nodeKindName(n.Kind))
		}
		dt.Types = make(map[string]Variable, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			name := n.Content[i].Value
			typePath := fmt.Sprintf("%s.types.%s", path, name)
			v, err := decodeVariable(n.Content[i+1], typePath)
			if err != nil {
				return nil, err
			}
			dt.Types[name] = *v
		}
	}
	return dt, nil
}
