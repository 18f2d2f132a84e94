package everest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRoundTripCall(t *testing.T) {
	args := map[string]json.RawMessage{
		"key":   json.RawMessage(`"counter"`),
		"value": json.RawMessage(`42`),
	}
	cmd := NewCall("store", "req-1", "rust_kvs_1", args)

	data, err := json.Marshal(cmd)
	require.NoError(t, err)

	var decoded Command
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, decoded.IsCall())
	assert.False(t, decoded.IsResult())
	assert.Equal(t, "store", decoded.Name)
	assert.Equal(t, "req-1", decoded.Call.ID)
	assert.Equal(t, "rust_kvs_1", decoded.Call.Origin)
	assert.JSONEq(t, `"counter"`, string(decoded.Call.Args["key"]))
}

func TestCommandRoundTripResult(t *testing.T) {
	cmd := NewResult("exists", "req-2", "RustKvs", true)

	data, err := json.Marshal(cmd)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"result","name":"exists","data":{"id":"req-2","origin":"RustKvs","retval":true}}`, string(data))

	var decoded Command
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.IsResult())
	assert.Equal(t, true, decoded.Result.Retval)
}

func TestCommandUnmarshalMalformed(t *testing.T) {
	var decoded Command
	err := json.Unmarshal([]byte(`not json`), &decoded)
	require.Error(t, err)
	var me *MalformedEnvelope
	assert.ErrorAs(t, err, &me)
}

func TestCommandUnmarshalUnknownType(t *testing.T) {
	var decoded Command
	err := json.Unmarshal([]byte(`{"type":"ping","name":"x","data":{}}`), &decoded)
	require.Error(t, err)
	var me *MalformedEnvelope
	require.ErrorAs(t, err, &me)
	assert.Contains(t, me.Error(), "ping")
}

func TestCallDataDecodeArg(t *testing.T) {
	d := &CallData{Args: map[string]json.RawMessage{
		"key": json.RawMessage(`"counter"`),
	}}

	var key string
	require.NoError(t, d.DecodeArg("store", "key", &key))
	assert.Equal(t, "counter", key)

	var missing string
	err := d.DecodeArg("store", "value", &missing)
	require.Error(t, err)
	var mae *MissingArgumentError
	require.ErrorAs(t, err, &mae)
	assert.Equal(t, "value", mae.Argument)

	var wrongType int
	err = d.DecodeArg("store", "key", &wrongType)
	require.Error(t, err)
	var iae *InvalidArgumentError
	require.ErrorAs(t, err, &iae)
	assert.Equal(t, "key", iae.Argument)
}
