package probe

import (
	"context"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// maintenanceProbe sweeps expired entries out of the query cache. Expired
// entries are never served even without it, since expiry is re-checked on
// every lookup; lookups do not remove them, so the sweep is what reclaims
// their memory.
type maintenanceProbe struct {
	cache Sweeper
	ttl   time.Duration
}

func newMaintenanceProbe(_ *config.Thread, env *Env) (Probe, error) {
	if env == nil || env.Cache == nil {
		return nil, errors.New("no query cache available")
	}

	return &maintenanceProbe{
		cache: env.Cache,
		ttl:   env.CacheTTL,
	}, nil
}

func (p *maintenanceProbe) Exec(_ context.Context) (string, error) {
	removed := p.cache.Sweep(p.ttl)
	if removed > 0 {
		log.WithFields(log.Fields{"kind": "check", "class": "maintenance", "removed": removed}).Debug("swept query cache")
	}

	return "", nil
}
