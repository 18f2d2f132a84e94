// Package everest implements the runtime half of an everest module: the
// call/result wire envelope, MQTT session bootstrap, and the dispatch
// loop that routes incoming calls to user-supplied service
// implementations and publishes their results.
//
// Code generated from a manifest and its interfaces (see pkg/codegen)
// builds on this package rather than duplicating it — a generated module
// struct embeds a *Module and registers a *SlotDispatcher per provided
// slot.
package everest

import "fmt"

// MissingArgumentError reports that a call omitted a required argument.
type MissingArgumentError struct {
	Command  string
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing argument %q to command %q", e.Argument, e.Command)
}

// InvalidArgumentError reports that a call's argument could not be
// decoded into the type the command expects.
type InvalidArgumentError struct {
	Command  string
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q to command %q: %s", e.Argument, e.Command, e.Reason)
}

// MalformedEnvelope reports a payload that isn't a well-formed Command
// envelope. Callers that receive this from decoding an inbound message
// should drop the message rather than propagate the error.
type MalformedEnvelope struct {
	Reason string
}

func (e *MalformedEnvelope) Error() string {
	return fmt.Sprintf("malformed envelope: %s", e.Reason)
}

// MqttClientError wraps a publish/subscribe failure.
type MqttClientError struct {
	Err error
}

func (e *MqttClientError) Error() string { return fmt.Sprintf("mqtt client error: %v", e.Err) }
func (e *MqttClientError) Unwrap() error { return e.Err }

// MqttConnectionError wraps a broker connection failure.
type MqttConnectionError struct {
	Err error
}

func (e *MqttConnectionError) Error() string { return fmt.Sprintf("mqtt connection error: %v", e.Err) }
func (e *MqttConnectionError) Unwrap() error { return e.Err }
