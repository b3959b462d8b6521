package probe

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/pkg/errors"
)

type statusFileProbe struct {
	path          string
	ttl           time.Duration
	errorString   string
	successString string
}

func newStatusFileProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	if cfg.StatusFile == "" {
		return nil, errors.New("status_file is required")
	}

	return &statusFileProbe{
		path:          cfg.StatusFile,
		ttl:           cfg.StatusFileTTL.Unwrap(),
		errorString:   cfg.ErrorString,
		successString: cfg.SuccessString,
	}, nil
}

func (p *statusFileProbe) Exec(_ context.Context) (string, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to stat status file %s", p.path)
	}

	if p.ttl > 0 && time.Since(info.ModTime()) > p.ttl {
		return "", errors.Errorf("status file %s not modified for more than %s", p.path, p.ttl)
	}

	contents, err := os.ReadFile(p.path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read status file %s", p.path)
	}

	successFound := false
	for _, line := range strings.Split(string(contents), "\n") {
		if p.errorString != "" && strings.Contains(line, p.errorString) {
			return "", errors.Errorf("error string %q found in %s", p.errorString, p.path)
		}
		if p.successString != "" && strings.Contains(line, p.successString) {
			successFound = true
		}
	}

	if p.successString != "" && !successFound {
		return "", errors.Errorf("success string %q not found in %s", p.successString, p.path)
	}

	return "", nil
}
