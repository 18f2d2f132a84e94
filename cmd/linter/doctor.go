package main

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/qwello/everest/pkg/config"
	"github.com/spf13/cobra"
)

var doctorBroker string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "diagnose whether the configured MQTT broker is reachable",
	Long: `doctor dials the broker a module would connect to (--broker, then
EVEREST_MQTT_BROKER, then the built-in default) and reports whether it
accepted the connection.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := config.ResolveBrokerAddr(doctorBroker)
		fmt.Fprintf(cmd.OutOrStdout(), "Checking broker %s... ", addr)

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", addr))
		opts.SetClientID("linter-doctor")
		opts.SetAutoReconnect(false)
		opts.SetConnectTimeout(3 * time.Second)

		client := mqtt.NewClient(opts)
		token := client.Connect()
		if !token.WaitTimeout(3 * time.Second) {
			fmt.Fprintln(cmd.OutOrStdout(), "UNREACHABLE (timed out)")
			return fmt.Errorf("doctor: connect to %s: timed out", addr)
		}
		if err := token.Error(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "UNREACHABLE")
			return fmt.Errorf("doctor: connect to %s: %w", addr, err)
		}
		client.Disconnect(250)
		fmt.Fprintln(cmd.OutOrStdout(), "reachable")
		return nil
	},
}

func init() {
	doctorCmd.Flags().StringVar(&doctorBroker, "broker", "", "broker address to check (host:port); falls back to "+config.BrokerEnvVar+", then "+config.DefaultBrokerAddr)
	rootCmd.AddCommand(doctorCmd)
}
