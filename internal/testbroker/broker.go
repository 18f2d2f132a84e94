// Package testbroker embeds a local MQTT broker for integration tests so
// a module's dispatch loop can be driven against a real paho client
// without depending on an external mosquitto instance.
//
// It is a from-scratch, much smaller rewrite of the teacher's own
// pkg/mqtt.Broker: only the mochi-mqtt bring-up/shutdown idiom survives
// — AddHook(auth.AllowHook), AddListener(listeners.NewTCP(...)), a
// goroutine running server.Serve(), and server.Close() on Close. None of
// the teacher's protocol/recording/session-manager/simulator machinery
// applies here; an everest module speaks plain MQTT publish/subscribe,
// nothing mockd-specific.
package testbroker

import (
	"context"
	"fmt"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
)

// Broker is a single-listener, no-auth MQTT broker for tests.
type Broker struct {
	server *mqtt.Server
	addr   string
}

// New starts a broker listening on addr (e.g. "127.0.0.1:18830"; use
// "127.0.0.1:0" only if the caller doesn't need to know the port ahead
// of time — paho clients need a concrete port, so tests should pick one).
func New(addr string) (*Broker, error) {
	server := mqtt.New(&mqtt.Options{InlineClient: true})
	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, fmt.Errorf("testbroker: add allow hook: %w", err)
	}

	listener := listeners.NewTCP(listeners.Config{ID: "testbroker", Address: addr})
	if err := server.AddListener(listener); err != nil {
		return nil, fmt.Errorf("testbroker: add listener: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("testbroker: serve: %w", err)
	default:
	}

	return &Broker{server: server, addr: addr}, nil
}

// Addr is the host:port the broker is listening on.
func (b *Broker) Addr() string { return b.addr }

// Close shuts the broker down, disconnecting any connected clients.
func (b *Broker) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- b.server.Close() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
