// Command everestmodule hosts a worked-example everest module: an
// in-memory key/value store implementing the "kvs" interface declared in
// manifest.yaml, analogous to original_source's rust_kvs binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/qwello/everest/cmd/everestmodule/generated"
	"github.com/qwello/everest/pkg/config"
	"github.com/qwello/everest/pkg/everest"
	"github.com/qwello/everest/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flags, err := everest.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	logger := logging.New(logging.DefaultConfig())
	// No --broker flag on this binary, so there's no flag value to pass;
	// ResolveBrokerAddr itself checks the environment variable.
	brokerAddr := config.ResolveBrokerAddr("")

	client, err := everest.NewClient("KvsModule", flags, brokerAddr)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	module := generated.NewModule(client, logger, newKVS())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("module starting", "module", "KvsModule", "identity", flags.Module, "broker", brokerAddr)
	return module.Run(ctx, flags.Module)
}
