package probe

import (
	"context"
	"net"
	"regexp"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/internal/helper"
	"github.com/pkg/errors"
)

const defaultMaxResponseSize = 1024

type udpRequestProbe struct {
	addr            string
	request         string
	response        *regexp.Regexp
	maxResponseSize int
}

func newUDPRequestProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	cfg.Host = helper.ResolveEnv(cfg.Host)
	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}
	if cfg.Port == 0 {
		return nil, errors.New("port is required")
	}

	response, err := regexp.Compile(cfg.Response)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid response pattern %q", cfg.Response)
	}

	maxResponseSize := cfg.MaxResponseSize
	if maxResponseSize <= 0 {
		maxResponseSize = defaultMaxResponseSize
	}

	return &udpRequestProbe{
		addr:            hostPort(cfg.Host, cfg.Port, 0),
		request:         cfg.Request,
		response:        response,
		maxResponseSize: maxResponseSize,
	}, nil
}

func (p *udpRequestProbe) Exec(ctx context.Context) (string, error) {
	dialer := net.Dialer{}

	conn, err := dialer.DialContext(ctx, "udp", p.addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte(p.request)); err != nil {
		return "", err
	}

	buf := make([]byte, p.maxResponseSize)
	n, err := conn.Read(buf)
	if err != nil {
		return "", err
	}

	response := trimTrailingSpace(string(buf[:n]))
	if !matchPrefix(p.response, response) {
		return "", errors.Errorf("response %q does not match %q", response, p.response.String())
	}

	return response, nil
}
