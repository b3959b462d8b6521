package probe

import (
	"context"
	"crypto/tls"
	"net"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/internal/helper"
	"github.com/pkg/errors"
)

type tcpProbe struct {
	addr       string
	useSSL     bool
	serverName string
}

func newTCPProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	cfg.Host = helper.ResolveEnv(cfg.Host)
	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}
	if cfg.Port == 0 {
		return nil, errors.New("port is required")
	}

	return &tcpProbe{
		addr:       hostPort(cfg.Host, cfg.Port, 0),
		useSSL:     cfg.UseSSL,
		serverName: cfg.Host,
	}, nil
}

func (p *tcpProbe) Exec(ctx context.Context) (string, error) {
	dialer := net.Dialer{}

	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if !p.useSSL {
		return "", nil
	}

	// reachability check only; certificate chains are not validated
	tlsConn := tls.Client(conn, &tls.Config{
		ServerName:         p.serverName,
		InsecureSkipVerify: true,
	})
	defer tlsConn.Close()

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return "", errors.Wrapf(err, "tls handshake with %s failed", p.addr)
	}

	return "", nil
}
