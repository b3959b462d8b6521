package probe

import (
	"context"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/pkg/errors"
)

// Probe is a single health check. Exec returns a success detail message
// (possibly empty) or an error describing the failure. The context carries
// the per-invocation timeout; probes must abandon in-flight work on expiry
// and must not retain state between invocations.
type Probe interface {
	Exec(ctx context.Context) (string, error)
}

// Sweeper is the part of the query cache the maintenance check needs.
type Sweeper interface {
	Sweep(ttl time.Duration) int
}

// Env carries process-wide collaborators that individual probes may need.
type Env struct {
	Cache    Sweeper
	CacheTTL time.Duration
}

type builder func(cfg *config.Thread, env *Env) (Probe, error)

var registry = map[string]builder{
	"dns":            newDNSProbe,
	"default_routes": newDefaultRoutesProbe,
	"interfaces":     newInterfacesProbe,
	"tcp":            newTCPProbe,
	"udp_request":    newUDPRequestProbe,
	"url":            newURLProbe,
	"sysctl":         newSysctlProbe,
	"status_file":    newStatusFileProbe,
	"maintenance":    newMaintenanceProbe,
	"redis":          newRedisProbe,
	"mysql":          newMySQLProbe,
	"amqp":           newAmqpProbe,
	"mongodb":        newMongoDBProbe,
}

// New builds the probe selected by cfg.Class. Unknown classes are rejected
// here, at configuration time.
func New(cfg *config.Thread, env *Env) (Probe, error) {
	build, ok := registry[cfg.Class]
	if !ok {
		return nil, errors.Errorf("unknown check class %q", cfg.Class)
	}

	return build(cfg, env)
}
