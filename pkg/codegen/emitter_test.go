package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qwello/everest/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoadManifest(t *testing.T, doc string) *schema.Manifest {
	t.Helper()
	m, err := schema.LoadManifest(strings.NewReader(doc))
	require.NoError(t, err)
	return m
}

func mustLoadInterface(t *testing.T, doc string) *schema.Interface {
	t.Helper()
	iface, err := schema.LoadInterface(strings.NewReader(doc))
	require.NoError(t, err)
	return iface
}

const kvsInterfaceDocA = `
description: a key/value store
cmds:
  store:
    description: store a value
    arguments:
      key:
        type: string
      value:
        type: string
  load:
    description: load a value
    arguments:
      key:
        type: string
    result:
      type: string
  exists:
    description: check existence
    arguments:
      key:
        type: string
    result:
      type: boolean
`

// kvsInterfaceDocB declares the same commands and arguments as
// kvsInterfaceDocA but in a different source order, to prove Emit's
// output doesn't depend on map iteration order.
const kvsInterfaceDocB = `
description: a key/value store
cmds:
  exists:
    description: check existence
    arguments:
      key:
        type: string
    result:
      type: boolean
  load:
    description: load a value
    arguments:
      key:
        type: string
    result:
      type: string
  store:
    description: store a value
    arguments:
      value:
        type: string
      key:
        type: string
`

func TestEmitIsDeterministicAcrossKeyOrder(t *testing.T) {
	manifestDoc := `
description: a kvs module
provides:
  main:
    interface: kvs
`
	manifest := mustLoadManifest(t, manifestDoc)
	ifaceA := mustLoadInterface(t, kvsInterfaceDocA)
	ifaceB := mustLoadInterface(t, kvsInterfaceDocB)

	outA, err := Emit("RustKvs", "generated", "github.com/qwello/everest/pkg/everest", manifest, map[string]*schema.Interface{"main": ifaceA})
	require.NoError(t, err)
	outB, err := Emit("RustKvs", "generated", "github.com/qwello/everest/pkg/everest", manifest, map[string]*schema.Interface{"main": ifaceB})
	require.NoError(t, err)

	assert.Equal(t, string(outA), string(outB))
}

func TestEmitProducesServiceInterfaceAndDispatcher(t *testing.T) {
	manifest := mustLoadManifest(t, `
description: a kvs module
provides:
  main:
    interface: kvs
`)
	iface := mustLoadInterface(t, kvsInterfaceDocA)

	out, err := Emit("RustKvs", "generated", "github.com/qwello/everest/pkg/everest", manifest, map[string]*schema.Interface{"main": iface})
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "type KvsService interface {")
	assert.Contains(t, src, "Store(ctx context.Context, key string, value string) error")
	assert.Contains(t, src, "Load(ctx context.Context, key string) (string, error)")
	assert.Contains(t, src, "Exists(ctx context.Context, key string) (bool, error)")
	assert.Contains(t, src, "func registerKvsService(d *everest.SlotDispatcher, impl KvsService) {")
	assert.Contains(t, src, `d.Handle("store", func(ctx context.Context, call *everest.CallData) (any, error) {`)
	assert.Contains(t, src, "func NewModule(client mqtt.Client, logger *slog.Logger, main KvsService) *Module {")
	assert.Contains(t, src, `"module":"RustKvs"`)
}

func TestEmitMissingInterfaceForSlot(t *testing.T) {
	manifest := mustLoadManifest(t, `
description: a kvs module
provides:
  main:
    interface: kvs
`)
	_, err := Emit("RustKvs", "generated", "github.com/qwello/everest/pkg/everest", manifest, map[string]*schema.Interface{})
	require.Error(t, err)
	var notFound *InterfaceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "main", notFound.Slot)
	assert.Equal(t, "kvs", notFound.Interface)
}

func TestBuilderGenerateMissingInterfaceFile(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`
description: a kvs module
provides:
  main:
    interface: kvs
`), 0o644))

	b := New("RustKvs", manifestPath, "", "")
	_, err := b.Generate()
	require.Error(t, err)
	var notFound *InterfaceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "main", notFound.Slot)
	assert.Equal(t, "kvs", notFound.Interface)
}
