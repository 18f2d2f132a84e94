package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeVariable implements the two-pass decode the polymorphic "type"
// field needs: first the discriminator is read out of the raw mapping
// without validating the rest of its keys, then a second pass validates
// the full field set against whatever that discriminator allows (a bare
// type name carries no option fields beyond its own kind's; a type union
// carries none at all) before decoding the concrete option struct.
func decodeVariable(node *yaml.Node, path string) (*Variable, error) {
	if node.Kind != yaml.MappingNode {
		return nil, violationf(path, "expected a mapping, got %s", nodeKindName(node.Kind))
	}
	typeNode, ok := findField(node, "type")
	if !ok {
		return nil, violationf(path, "missing required field %q", "type")
	}

	var (
		kind     TypeKind
		multi    []TypeKind
		isUnion  bool
	)
	switch typeNode.Kind {
	case yaml.ScalarNode:
		k, ok := parseTypeKind(typeNode.Value)
		if !ok {
			return nil, violationf(path+".type", "unknown type %q", typeNode.Value)
		}
		kind = k
	case yaml.SequenceNode:
		isUnion = true
		for i, child := range typeNode.Content {
			if child.Kind != yaml.ScalarNode {
				return nil, violationf(fmt.Sprintf("%s.type[%d]", path, i), "expected a type name")
			}
			k, ok := parseTypeKind(child.Value)
			if !ok {
				return nil, violationf(fmt.Sprintf("%s.type[%d]", path, i), "unknown type %q", child.Value)
			}
			multi = append(multi, k)
		}
	default:
		return nil, violationf(path+".type", "must be a string or a sequence of strings")
	}

	known := []string{"description", "type"}
	if !isUnion {
		known = append(known, optionFieldNames(kind)...)
	}
	fields, err := mappingFields(node, path, known)
	if err != nil {
		return nil, err
	}

	v := &Variable{}
	if n, ok := fields["description"]; ok {
		if err := decodeScalar(n, path+".description", &v.Description); err != nil {
			return nil, err
		}
	}

	if isUnion {
		types := make([]Type, len(multi))
		for i, k := range multi {
			types[i] = Type{Kind: k}
		}
		v.Arg = Argument{Multiple: types}
		return v, nil
	}

	t, err := decodeTypeOptions(kind, fields, path)
	if err != nil {
		return nil, err
	}
	v.Arg = Argument{Single: t}
	return v, nil
}

func parseTypeKind(name string) (TypeKind, bool) {
	switch TypeKind(name) {
	case KindNull, KindBoolean, KindString, KindNumber, KindInteger, KindArray, KindObject:
		return TypeKind(name), true
	default:
		return "", false
	}
}

// optionFieldNames lists the constraint fields a single-type Variable may
// carry alongside "description"/"type", for a given kind. Anything else
// present in the mapping is an unknown field.
func optionFieldNames(kind TypeKind) []string {
	switch kind {
	case KindString:
		return []string{"pattern", "format", "minLength", "maxLength", "enum", "$ref"}
	case KindNumber, KindInteger:
		return []string{"minimum", "maximum"}
	case KindArray:
		return []string{"minItems", "maxItems", "items"}
	case KindObject:
		return []string{"properties", "required", "additionalProperties", "$ref"}
	default:
		return nil
	}
}

func decodeTypeOptions(kind TypeKind, fields map[string]*yaml.Node, path string) (*Type, error) {
	switch kind {
	case KindNull:
		return &Type{Kind: KindNull}, nil
	case KindBoolean:
		return &Type{Kind: KindBoolean}, nil
	case KindString:
		opts, err := decodeStringOptions(fields, path)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindString, String: opts}, nil
	case KindNumber:
		opts, err := decodeNumberOptions(fields, path)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindNumber, Number: opts}, nil
	case KindInteger:
		opts, err := decodeIntegerOptions(fields, path)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindInteger, Integer: opts}, nil
	case KindArray:
		opts, err := decodeArrayOptions(fields, path)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindArray, Array: opts}, nil
	case KindObject:
		opts, err := decodeObjectOptions(fields, path)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindObject, Object: opts}, nil
	default:
		return nil, violationf(path+".type", "unknown type %q", string(kind))
	}
}

func decodeStringOptions(fields map[string]*yaml.Node, path string) (*StringOptions, error) {
	o := &StringOptions{}
	if n, ok := fields["pattern"]; ok {
		o.Pattern = new(string)
		if err := decodeScalar(n, path+".pattern", o.Pattern); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["format"]; ok {
		o.Format = new(string)
		if err := decodeScalar(n, path+".format", o.Format); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["minLength"]; ok {
		o.MinLength = new(int)
		if err := decodeScalar(n, path+".minLength", o.MinLength); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["maxLength"]; ok {
		o.MaxLength = new(int)
		if err := decodeScalar(n, path+".maxLength", o.MaxLength); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["enum"]; ok {
		if err := decodeScalar(n, path+".enum", &o.Enum); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["$ref"]; ok {
		o.Ref = new(string)
		if err := decodeScalar(n, path+".$ref", o.Ref); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func decodeNumberOptions(fields map[string]*yaml.Node, path string) (*NumberOptions, error) {
	o := &NumberOptions{}
	if n, ok := fields["minimum"]; ok {
		o.Minimum = new(float64)
		if err := decodeScalar(n, path+".minimum", o.Minimum); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["maximum"]; ok {
		o.Maximum = new(float64)
		if err := decodeScalar(n, path+".maximum", o.Maximum); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func decodeIntegerOptions(fields map[string]*yaml.Node, path string) (*IntegerOptions, error) {
	o := &IntegerOptions{}
	if n, ok := fields["minimum"]; ok {
		o.Minimum = new(float64)
		if err := decodeScalar(n, path+".minimum", o.Minimum); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["maximum"]; ok {
		o.Maximum = new(float64)
		if err := decodeScalar(n, path+".maximum", o.Maximum); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func decodeArrayOptions(fields map[string]*yaml.Node, path string) (*ArrayOptions, error) {
	o := &ArrayOptions{}
	if n, ok := fields["minItems"]; ok {
		o.MinItems = new(int)
		if err := decodeScalar(n, path+".minItems", o.MinItems); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["maxItems"]; ok {
		o.MaxItems = new(int)
		if err := decodeScalar(n, path+".maxItems", o.MaxItems); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["items"]; ok {
		items, err := decodeVariable(n, path+".items")
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return o, nil
}

func decodeObjectOptions(fields map[string]*yaml.Node, path string) (*ObjectOptions, error) {
	o := &ObjectOptions{AdditionalProperties: false}
	if n, ok := fields["properties"]; ok {
		if n.Kind != yaml.MappingNode {
			return nil, violationf(path+".properties", "expected a mapping, got %s", nodeKindName(n.Kind))
		}
		o.Properties = make(map[string]Variable, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			name := n.Content[i].Value
			propPath := fmt.Sprintf("%s.properties.%s", path, name)
			v, err := decodeVariable(n.Content[i+1], propPath)
			if err != nil {
				return nil, err
			}
			o.Properties[name] = *v
		}
	}
	if n, ok := fields["required"]; ok {
		if err := decodeScalar(n, path+".required", &o.Required); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["additionalProperties"]; ok {
		if err := decodeScalar(n, path+".additionalProperties", &o.AdditionalProperties); err != nil {
			return nil, err
		}
	}
	if n, ok := fields["$ref"]; ok {
		o.Ref = new(string)
		if err := decodeScalar(n, path+".$ref", o.Ref); err != nil {
			return nil, err
		}
	}
	return o, nil
}
