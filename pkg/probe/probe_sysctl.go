package probe

import (
	"context"
	"fmt"
	"sort"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/pkg/errors"
)

type sysctlProbe struct {
	root      string
	variables map[string]string
}

func newSysctlProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	if len(cfg.Variables) == 0 {
		return nil, errors.New("variables map is required")
	}

	variables := make(map[string]string, len(cfg.Variables))
	for name, expected := range cfg.Variables {
		variables[name] = fmt.Sprint(expected)
	}

	return &sysctlProbe{
		root:      sysctlRoot,
		variables: variables,
	}, nil
}

func (p *sysctlProbe) Exec(_ context.Context) (string, error) {
	names := make([]string, 0, len(p.variables))
	for name := range p.variables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		// an unreadable or missing file reads as "", which can never
		// equal a non-empty expectation
		value := readSysctl(p.root, name)
		if value != p.variables[name] {
			return "", errors.Errorf("sysctl %s is %q, expected %q", name, value, p.variables[name])
		}
	}

	return "", nil
}
