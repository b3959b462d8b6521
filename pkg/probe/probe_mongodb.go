package probe

import (
	"context"
	"net/url"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/internal/helper"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoDBProbe struct {
	uri string
}

func newMongoDBProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	cfg.URL = helper.ResolveEnv(cfg.URL)
	cfg.Host = helper.ResolveEnv(cfg.Host)
	cfg.Database = helper.ResolveEnv(cfg.Database)

	if cfg.URL != "" {
		return &mongoDBProbe{uri: cfg.URL}, nil
	}

	if cfg.Host == "" {
		return nil, errors.New("url or host is required")
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   hostPort(cfg.Host, cfg.Port, 27017),
		Path:   cfg.Database,
	}

	return &mongoDBProbe{uri: u.String()}, nil
}

func (p *mongoDBProbe) Exec(ctx context.Context) (string, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(p.uri))
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return "", err
	}

	return "", nil
}
