package everest

import (
	"errors"
	"flag"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// dispatchQueueDepth is the message channel depth NewClient sets on the
// paho client options. It mirrors the outbound queue depth the original
// client requested from its broker connection (initialize_mqtt's
// AsyncClient::new(mqtt_options, 10)). The buffer between the paho
// callback goroutine and the dispatch loop is Module's own incoming
// channel, sized separately in NewModule.
const dispatchQueueDepth = 10

// keepAlive is the MQTT keep-alive interval every everest module
// connects with.
const keepAlive = 60 * time.Second

// Flags are the three command-line arguments Everest's manager always
// supplies to a module process: the installation prefix, the path to
// the module's own configuration file, and the runtime identity the
// manager assigned it. Prefix and Conf are accepted and stored for a
// module implementation to use but are not interpreted by this package.
type Flags struct {
	Prefix string
	Conf   string
	Module string
}

// ParseFlags parses args (typically os.Args[1:]) into Flags.
func ParseFlags(args []string) (*Flags, error) {
	fs := flag.NewFlagSet("everest-module", flag.ContinueOnError)
	prefix := fs.String("prefix", "", "prefix of the everest installation")
	conf := fs.String("conf", "", "path to the module's configuration file")
	module := fs.String("module", "", "runtime identity assigned to this module by the manager")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *module == "" {
		return nil, errors.New("everest: --module is required")
	}
	return &Flags{Prefix: *prefix, Conf: *conf, Module: *module}, nil
}

// NewClient builds and connects a paho MQTT client for a module of the
// given type name (e.g. "RustKvs"), using flags.Module as the runtime
// identity component of its client ID. brokerAddr is a host:port pair,
// typically from config.ResolveBrokerAddr.
func NewClient(typeName string, flags *Flags, brokerAddr string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", brokerAddr))
	opts.SetClientID(fmt.Sprintf("%s/%s", typeName, flags.Module))
	opts.SetKeepAlive(keepAlive)
	opts.SetMessageChannelDepth(dispatchQueueDepth)
	opts.SetOrderMatters(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, &MqttConnectionError{Err: fmt.Errorf("connect to %s: timed out", brokerAddr)}
	}
	if err := token.Error(); err != nil {
		return nil, &MqttConnectionError{Err: err}
	}
	return client, nil
}
