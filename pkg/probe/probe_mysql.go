package probe

import (
	"context"
	"database/sql"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/internal/helper"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

type mySQLProbe struct {
	dsn string
}

func newMySQLProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	cfg.Host = helper.ResolveEnv(cfg.Host)
	cfg.User = helper.ResolveEnv(cfg.User)
	cfg.Password = helper.ResolveEnv(cfg.Password)
	cfg.Database = helper.ResolveEnv(cfg.Database)

	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}

	connCfg := mysql.NewConfig()
	connCfg.User = cfg.User
	connCfg.Passwd = cfg.Password
	connCfg.Net = "tcp"
	connCfg.Addr = hostPort(cfg.Host, cfg.Port, 3306)
	connCfg.DBName = cfg.Database

	return &mySQLProbe{dsn: connCfg.FormatDSN()}, nil
}

func (p *mySQLProbe) Exec(ctx context.Context) (string, error) {
	db, err := sql.Open("mysql", p.dsn)
	if err != nil {
		return "", err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT 1")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	return "", rows.Err()
}
