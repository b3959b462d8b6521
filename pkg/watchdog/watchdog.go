package watchdog

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	log "github.com/sirupsen/logrus"
)

const defaultIntervalUsec = 3000000

// Notifier integrates with the supervising init system: a one-time readiness
// notification on startup and periodic liveness pings at half the watchdog
// interval, taken from WATCHDOG_USEC.
type Notifier struct {
	interval time.Duration
}

func New() *Notifier {
	usec := defaultIntervalUsec

	if env := os.Getenv("WATCHDOG_USEC"); env != "" {
		parsed, err := strconv.Atoi(env)
		if err != nil || parsed <= 0 {
			log.Warnf("ignoring invalid WATCHDOG_USEC value %q", env)
		} else {
			usec = parsed
		}
	}

	return &Notifier{interval: time.Duration(usec) * time.Microsecond}
}

func (n *Notifier) Ready() {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warnf("failed to notify readiness: %s", err)
	}
}

// Run pings the watchdog until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.interval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				log.Warnf("failed to ping watchdog: %s", err)
			}
		}
	}
}
