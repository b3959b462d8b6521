package probe

import (
	"context"
	"net/url"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/internal/helper"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

const defaultVirtualHost = "/"

type amqpProbe struct {
	url string
}

func newAmqpProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	cfg.Host = helper.ResolveEnv(cfg.Host)
	cfg.User = helper.ResolveEnv(cfg.User)
	cfg.Password = helper.ResolveEnv(cfg.Password)

	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}

	u := url.URL{
		Scheme: "amqp",
		Host:   hostPort(cfg.Host, cfg.Port, 5672),
		Path:   helper.SetDefaultStringIfEmpty(cfg.VirtualHost, defaultVirtualHost),
	}

	if cfg.User != "" && cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}

	return &amqpProbe{url: u.String()}, nil
}

func (p *amqpProbe) Exec(ctx context.Context) (string, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial: amqp.DefaultDial(deadlineTimeout(ctx)),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to dial amqp")
	}
	defer conn.Close()

	return "", nil
}
