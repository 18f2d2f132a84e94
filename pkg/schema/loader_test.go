package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	doc := `
description: a key/value store module
provides:
  store:
    interface: kvsservice
    description: the kvs slot
metadata:
  license: Apache-2.0
  authors:
    - Jane Doe
`
	m, err := LoadManifest(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "a key/value store module", m.Description)
	assert.Equal(t, "kvsservice", m.Provides["store"].Interface)
	assert.Equal(t, "Apache-2.0", m.Metadata.License)
	assert.Equal(t, []string{"Jane Doe"}, m.Metadata.Authors)
}

func TestLoadManifestUnknownField(t *testing.T) {
	doc := `
description: bad manifest
bogus: true
`
	_, err := LoadManifest(strings.NewReader(doc))
	require.Error(t, err)
	var sv *SchemaViolation
	require.ErrorAs(t, err, &sv)
	assert.Contains(t, sv.Error(), "bogus")
}

func TestLoadInterfaceSingleType(t *testing.T) {
	doc := `
description: a kvs slot
cmds:
  store:
    description: store a value
    arguments:
      key:
        description: the key
        type: string
      value:
        description: the value
        type: string
  exists:
    description: check existence
    arguments:
      key:
        type: string
    result:
      description: whether the key exists
      type: boolean
`
	iface, err := LoadInterface(strings.NewReader(doc))
	require.NoError(t, err)
	require.Contains(t, iface.Cmds, "store")
	require.Contains(t, iface.Cmds, "exists")

	store := iface.Cmds["store"]
	require.Len(t, store.Arguments, 2)
	key := store.Arguments["key"]
	require.True(t, key.Arg.IsSingle())
	assert.Equal(t, KindString, key.Arg.Single.Kind)

	exists := iface.Cmds["exists"]
	require.NotNil(t, exists.Result)
	assert.Equal(t, KindBoolean, exists.Result.Arg.Single.Kind)
}

func TestLoadInterfaceUnionType(t *testing.T) {
	doc := `
description: a slot with a union-typed argument
cmds:
  store:
    description: store a value of any scalar type
    arguments:
      value:
        description: the value
        type:
          - boolean
          - string
          - number
`
	iface, err := LoadInterface(strings.NewReader(doc))
	require.NoError(t, err)
	value := iface.Cmds["store"].Arguments["value"]
	require.False(t, value.Arg.IsSingle())
	require.Len(t, value.Arg.Multiple, 3)
	assert.Equal(t, KindBoolean, value.Arg.Multiple[0].Kind)
	assert.Equal(t, KindString, value.Arg.Multiple[1].Kind)
	assert.Equal(t, KindNumber, value.Arg.Multiple[2].Kind)
}

func TestLoadInterfaceStringOptions(t *testing.T) {
	doc := `
description: a slot with constrained arguments
cmds:
  store:
    description: store a value
    arguments:
      key:
        description: the key
        type: string
        pattern: "^[a-z]+$"
        minLength: 1
        maxLength: 64
        enum:
          - a
          - b
`
	iface, err := LoadInterface(strings.NewReader(doc))
	require.NoError(t, err)
	key := iface.Cmds["store"].Arguments["key"]
	require.NotNil(t, key.Arg.Single.String)
	assert.Equal(t, "^[a-z]+$", *key.Arg.Single.String.Pattern)
	assert.Equal(t, 1, *key.Arg.Single.String.MinLength)
	assert.Equal(t, 64, *key.Arg.Single.String.MaxLength)
	assert.Equal(t, []string{"a", "b"}, key.Arg.Single.String.Enum)
}

func TestLoadInterfaceRejectsOptionsOnUnionType(t *testing.T) {
	doc := `
description: invalid
cmds:
  store:
    description: bad
    arguments:
      value:
        type:
          - string
          - number
        minLength: 1
`
	_, err := LoadInterface(strings.NewReader(doc))
	require.Error(t, err)
	var sv *SchemaViolation
	require.ErrorAs(t, err, &sv)
}

func TestLoadInterfaceMissingType(t *testing.T) {
	doc := `
description: invalid
cmds:
  store:
    description: bad
    arguments:
      value:
        description: no type here
`
	_, err := LoadInterface(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestLoadDataTypes(t *testing.T) {
	doc := `
description: shared types
types:
  position:
    description: a 2D position
    type: object
    properties:
      x:
        type: number
      y:
        type: number
    required:
      - x
      - y
`
	dt, err := LoadDataTypes(strings.NewReader(doc))
	require.NoError(t, err)
	pos := dt.Types["position"]
	require.Equal(t, KindObject, pos.Arg.Single.Kind)
	assert.ElementsMatch(t, []string{"x", "y"}, pos.Arg.Single.Object.Required)
}
