package probe

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPProbeConnects(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	p := &tcpProbe{addr: listener.Addr().String()}

	_, err = p.Exec(context.Background())
	assert.NoError(t, err)
}

func TestTCPProbeConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := listener.Addr().String()
	listener.Close()

	p := &tcpProbe{addr: addr}

	_, err = p.Exec(context.Background())
	assert.Error(t, err)
}
