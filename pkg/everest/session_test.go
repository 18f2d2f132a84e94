package everest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags([]string{"--prefix", "/opt/everest", "--conf", "rust_kvs.yaml", "--module", "rust_kvs_1"})
	require.NoError(t, err)
	assert.Equal(t, "/opt/everest", flags.Prefix)
	assert.Equal(t, "rust_kvs.yaml", flags.Conf)
	assert.Equal(t, "rust_kvs_1", flags.Module)
}

func TestParseFlagsRequiresModule(t *testing.T) {
	_, err := ParseFlags([]string{"--prefix", "/opt/everest"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--module")
}
