package probe

import (
	"context"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/internal/helper"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

type redisProbe struct {
	addr     string
	password string
}

func newRedisProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	cfg.Host = helper.ResolveEnv(cfg.Host)
	cfg.Password = helper.ResolveEnv(cfg.Password)

	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}

	return &redisProbe{
		addr:     hostPort(cfg.Host, cfg.Port, 6379),
		password: cfg.Password,
	}, nil
}

func (p *redisProbe) Exec(ctx context.Context) (string, error) {
	timeout := deadlineTimeout(ctx)

	client := redis.NewClient(&redis.Options{
		Addr:         p.addr,
		Password:     p.password,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
	defer client.Close()

	if _, err := client.Ping().Result(); err != nil {
		return "", err
	}

	return "", nil
}

func deadlineTimeout(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}
	return time.Second
}
