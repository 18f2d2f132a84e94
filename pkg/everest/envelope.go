package everest

import (
	"encoding/json"
	"fmt"
)

// CallData is the payload of a call envelope: a correlation id, the
// identity of the caller, and the named arguments for the command.
type CallData struct {
	ID     string
	Origin string
	Args   map[string]json.RawMessage
}

// Arg looks up a named argument without decoding it.
func (d *CallData) Arg(name string) (json.RawMessage, bool) {
	raw, ok := d.Args[name]
	return raw, ok
}

// DecodeArg decodes a named argument into out, returning
// *MissingArgumentError if it is absent or *InvalidArgumentError if it
// does not decode into out's type. command names the calling command,
// for error messages only.
func (d *CallData) DecodeArg(command, name string, out any) error {
	raw, ok := d.Args[name]
	if !ok {
		return &MissingArgumentError{Command: command, Argument: name}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidArgumentError{Command: command, Argument: name, Reason: err.Error()}
	}
	return nil
}

// ResultData is the payload of a result envelope: the same correlation
// id as the call it answers, the responder's identity, and the return
// value (nil for commands with no declared result).
type ResultData struct {
	ID     string
	Origin string
	Retval any
}

// Command is the wire envelope exchanged on a slot's cmd topic: either a
// call or a result, tagged by "type" and named by the command it
// concerns.
type Command struct {
	Name   string
	Call   *CallData
	Result *ResultData
}

// NewCall builds a call envelope.
func NewCall(name, id, origin string, args map[string]json.RawMessage) Command {
	return Command{Name: name, Call: &CallData{ID: id, Origin: origin, Args: args}}
}

// NewResult builds a result envelope.
func NewResult(name, id, origin string, retval any) Command {
	return Command{Name: name, Result: &ResultData{ID: id, Origin: origin, Retval: retval}}
}

// IsCall reports whether this envelope carries a call.
func (c Command) IsCall() bool { return c.Call != nil }

// IsResult reports whether this envelope carries a result.
func (c Command) IsResult() bool { return c.Result != nil }

type callWire struct {
	ID     string                     `json:"id"`
	Origin string                     `json:"origin"`
	Args   map[string]json.RawMessage `json:"args"`
}

type resultWire struct {
	ID     string `json:"id"`
	Origin string `json:"origin"`
	Retval any    `json:"retval"`
}

// MarshalJSON renders the envelope as {"type","name","data"}, camelCase,
// matching the wire format every everest module speaks.
func (c Command) MarshalJSON() ([]byte, error) {
	switch {
	case c.Call != nil:
		return json.Marshal(struct {
			Type string   `json:"type"`
			Name string   `json:"name"`
			Data callWire `json:"data"`
		}{
			Type: "call",
			Name: c.Name,
			Data: callWire{ID: c.Call.ID, Origin: c.Call.Origin, Args: c.Call.Args},
		})
	case c.Result != nil:
		return json.Marshal(struct {
			Type string     `json:"type"`
			Name string     `json:"name"`
			Data resultWire `json:"data"`
		}{
			Type: "result",
			Name: c.Name,
			Data: resultWire{ID: c.Result.ID, Origin: c.Result.Origin, Retval: c.Result.Retval},
		})
	default:
		return nil, fmt.Errorf("everest: empty command envelope")
	}
}

// UnmarshalJSON decodes an envelope, probing the "type" discriminator
// before committing to a shape — the same two-step approach the schema
// loader uses for the polymorphic Variable type, applied here to the
// wire envelope instead of a YAML document.
func (c *Command) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return &MalformedEnvelope{Reason: err.Error()}
	}
	switch probe.Type {
	case "call":
		var wire struct {
			Data callWire `json:"data"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return &MalformedEnvelope{Reason: err.Error()}
		}
		c.Name = probe.Name
		c.Call = &CallData{ID: wire.Data.ID, Origin: wire.Data.Origin, Args: wire.Data.Args}
		c.Result = nil
	case "result":
		var wire struct {
			Data resultWire `json:"data"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return &MalformedEnvelope{Reason: err.Error()}
		}
		c.Name = probe.Name
		c.Result = &ResultData{ID: wire.Data.ID, Origin: wire.Data.Origin, Retval: wire.Data.Retval}
		c.Call = nil
	default:
		return &MalformedEnvelope{Reason: fmt.Sprintf("unknown envelope type %q", probe.Type)}
	}
	return nil
}
