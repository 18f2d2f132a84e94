package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/qwello/everest/internal/testbroker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func runDoctor(t *testing.T, broker string) (string, error) {
	t.Helper()
	doctorBroker = broker
	t.Cleanup(func() { doctorBroker = "" })

	var out bytes.Buffer
	doctorCmd.SetOut(&out)
	doctorCmd.SetErr(&out)
	err := doctorCmd.RunE(doctorCmd, nil)
	return out.String(), err
}

func TestDoctorReportsReachableBroker(t *testing.T) {
	addr := fmt.Sprintf("127.0.0.1:%d", freePort(t))
	broker, err := testbroker.New(addr)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		broker.Close(ctx)
	})
	time.Sleep(100 * time.Millisecond)

	out, err := runDoctor(t, addr)
	require.NoError(t, err)
	assert.Contains(t, out, "reachable")
}

func TestDoctorReportsUnreachableBroker(t *testing.T) {
	addr := fmt.Sprintf("127.0.0.1:%d", freePort(t))

	out, err := runDoctor(t, addr)
	require.Error(t, err)
	assert.Contains(t, out, "UNREACHABLE")
}
