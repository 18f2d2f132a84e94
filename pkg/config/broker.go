// Package config resolves the small amount of environment-provided
// configuration an everest module needs beyond its three CLI flags —
// currently just the MQTT broker address, which upstream Everest assigns
// out of band rather than passing on the command line.
package config

import "os"

// DefaultBrokerAddr is used when neither a flag value nor the environment
// variable supplies one. It matches the address the original Everest
// client hardcoded.
const DefaultBrokerAddr = "127.0.0.1:1883"

// BrokerEnvVar overrides DefaultBrokerAddr when set.
const BrokerEnvVar = "EVEREST_MQTT_BROKER"

// ResolveBrokerAddr picks a broker address: an explicit flag value wins,
// then the environment variable, then the default.
func ResolveBrokerAddr(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(BrokerEnvVar); v != "" {
		return v
	}
	return DefaultBrokerAddr
}
