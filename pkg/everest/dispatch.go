package everest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/qwello/everest/pkg/logging"
)

// cmdQoS is the QoS level every everest topic publishes and subscribes
// at — ExactlyOnce, matching the original rumqttc client.
const cmdQoS = 2

const subscribeTimeout = 10 * time.Second
const publishTimeout = 10 * time.Second

// State names a point in a module's lifecycle.
type State int

// The states a Module moves through, in order, plus the terminal Failed
// state any of them can transition to on a transport error, and that
// dispatch moves to on an argument or handler error.
const (
	StateInit State = iota
	StateSubscribing
	StateAnnouncing
	StateServing
	StateDispatching
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateSubscribing:
		return "subscribing"
	case StateAnnouncing:
		return "announcing"
	case StateServing:
		return "serving"
	case StateDispatching:
		return "dispatching"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CommandFunc implements one command of a provided interface. It runs on
// the module's single dispatch goroutine — the Go expression of
// everest's single-threaded cooperative scheduling model — so it may
// freely mutate state the rest of the slot's implementation owns without
// further synchronization.
type CommandFunc func(ctx context.Context, call *CallData) (any, error)

// SlotDispatcher routes the commands of one provided slot's interface to
// the CommandFuncs generated code registered for it.
type SlotDispatcher struct {
	Slot     string
	Commands map[string]CommandFunc
}

// NewSlotDispatcher creates an empty dispatcher for the named slot.
func NewSlotDispatcher(slot string) *SlotDispatcher {
	return &SlotDispatcher{Slot: slot, Commands: make(map[string]CommandFunc)}
}

// Handle registers fn as the implementation of the named command.
func (d *SlotDispatcher) Handle(name string, fn CommandFunc) {
	d.Commands[name] = fn
}

// Dispatch runs the named command, if this slot declares it. found is
// false when the command is unrecognized — the caller should drop the
// message rather than treat it as an error, per everest's policy of
// silently ignoring unknown commands.
func (d *SlotDispatcher) Dispatch(ctx context.Context, name string, call *CallData) (retval any, found bool, err error) {
	fn, ok := d.Commands[name]
	if !ok {
		return nil, false, nil
	}
	retval, err = fn(ctx, call)
	return retval, true, err
}

// Module is the runtime half of a generated everest module: it owns the
// MQTT session, holds one SlotDispatcher per provided slot, and runs the
// single dispatch loop that subscribes, announces, and serves calls.
//
// TypeName is the module's static type name (e.g. "RustKvs"), used here
// only to label log records; the MQTT client ID is built by NewClient
// from its own typeName argument. Identity is the runtime instance name
// assigned by the manager via --module, and is what every topic this
// module publishes or subscribes to is built from.
type Module struct {
	TypeName string
	Identity string
	Client   mqtt.Client
	Logger   *slog.Logger
	Metadata json.RawMessage

	slots    map[string]*SlotDispatcher
	incoming chan inboundMessage
	state    State
}

type inboundMessage struct {
	slot    string
	payload []byte
}

// NewModule builds a Module. metadata is the pre-serialized metadata
// document generated code embeds as a constant. If logger is nil,
// logging.Nop() semantics apply via a discard handler.
func NewModule(typeName string, client mqtt.Client, logger *slog.Logger, metadata json.RawMessage) *Module {
	return &Module{
		TypeName: typeName,
		Client:   client,
		Logger:   logger,
		Metadata: metadata,
		slots:    make(map[string]*SlotDispatcher),
		incoming: make(chan inboundMessage, 64),
	}
}

// Register adds a slot's dispatcher to the module. It must be called
// before Run.
func (m *Module) Register(d *SlotDispatcher) {
	m.slots[d.Slot] = d
}

// State reports the module's current point in its lifecycle.
func (m *Module) State() State { return m.state }

func (m *Module) setState(s State) {
	m.state = s
	m.log().Debug("module state transition", "state", s.String())
}

func (m *Module) metadataTopic() string { return fmt.Sprintf("everest/%s/metadata", m.Identity) }
func (m *Module) readyTopic() string    { return fmt.Sprintf("everest/%s/ready", m.Identity) }
func (m *Module) cmdTopic(slot string) string {
	return fmt.Sprintf("everest/%s/%s/cmd", m.Identity, slot)
}

// Run subscribes to every registered slot's command topic, announces the
// module's metadata and readiness, and then serves calls until ctx is
// canceled, a transport error occurs, or a call fails with a missing or
// invalid argument or a handler error. It implements the state machine
// of Init → Subscribing → Announcing → Serving ⇄ Dispatching, with any
// of those failures moving the module to Failed and returning the error.
func (m *Module) Run(ctx context.Context, identity string) error {
	m.Identity = identity
	m.setState(StateSubscribing)

	for slot := range m.slots {
		slot := slot
		topic := m.cmdTopic(slot)
		token := m.Client.Subscribe(topic, cmdQoS, func(_ mqtt.Client, msg mqtt.Message) {
			select {
			case m.incoming <- inboundMessage{slot: slot, payload: msg.Payload()}:
			case <-ctx.Done():
			}
		})
		if err := waitToken(token, subscribeTimeout); err != nil {
			return m.fail(fmt.Errorf("subscribe %s: %w", topic, err))
		}
	}

	m.setState(StateAnnouncing)
	if err := m.publish(m.metadataTopic(), m.Metadata); err != nil {
		return m.fail(err)
	}
	if err := m.publish(m.readyTopic(), []byte("true")); err != nil {
		return m.fail(err)
	}

	m.setState(StateServing)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-m.incoming:
			if !ok {
				return nil
			}
			m.setState(StateDispatching)
			if err := m.handle(ctx, msg); err != nil {
				return m.fail(err)
			}
			m.setState(StateServing)
		}
	}
}

func (m *Module) fail(err error) error {
	m.setState(StateFailed)
	m.log().Error("module failed", "error", err)
	return err
}

func (m *Module) handle(ctx context.Context, msg inboundMessage) error {
	dispatcher, ok := m.slots[msg.slot]
	if !ok {
		m.log().Debug("dropping message for unregistered slot", "slot", msg.slot)
		return nil
	}

	var cmd Command
	if err := json.Unmarshal(msg.payload, &cmd); err != nil {
		m.log().Debug("dropping malformed envelope", "slot", msg.slot, "error", err)
		return nil
	}
	if !cmd.IsCall() {
		return nil
	}

	retval, found, err := dispatcher.Dispatch(ctx, cmd.Name, cmd.Call)
	if !found {
		m.log().Debug("dropping unknown command", "slot", msg.slot, "command", cmd.Name)
		return nil
	}
	if err != nil {
		return err
	}

	result := NewResult(cmd.Name, cmd.Call.ID, m.Identity, retval)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result for %q: %w", cmd.Name, err)
	}
	return m.publish(m.cmdTopic(msg.slot), payload)
}

func (m *Module) publish(topic string, payload []byte) error {
	token := m.Client.Publish(topic, cmdQoS, false, payload)
	if err := waitToken(token, publishTimeout); err != nil {
		return &MqttClientError{Err: fmt.Errorf("publish %s: %w", topic, err)}
	}
	return nil
}

func (m *Module) log() *slog.Logger {
	base := m.Logger
	if base == nil {
		base = logging.Nop()
	}
	if m.Identity == "" {
		return base
	}
	return logging.With(base, m.TypeName, m.Identity)
}

func waitToken(token mqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("timed out")
	}
	return token.Error()
}
