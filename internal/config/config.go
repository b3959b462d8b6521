package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultInterval            = 3 * time.Second
	defaultMaintenanceInterval = 60 * time.Second
	defaultTimeout             = 1 * time.Second

	defaultAddress            = "::"
	defaultPort               = 10200
	defaultLocation           = "/getstatus"
	defaultQueryTimeout       = 1 * time.Second
	defaultQueryCacheTTL      = 1 * time.Second
	defaultWaitStatusInterval = 1 * time.Second
)

// Load reads and validates the configuration file. Unknown keys and
// structural errors are fatal here; class names are not checked against the
// probe registry, so unknown classes and per-class parameters are rejected
// later by probe.New and the probe constructors.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration file %q", path)
	}

	return Parse(contents, path)
}

func Parse(contents []byte, path string) (*Config, error) {
	cfg := Config{}

	decoder := yaml.NewDecoder(bytes.NewReader(contents))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "could not parse configuration file %q", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration file %q", path)
	}

	cfg.fillDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Threads) == 0 {
		return errors.New("no threads configured")
	}

	servers, sweepers := 0, 0
	for name, thread := range c.Threads {
		if thread == nil || thread.Class == "" {
			return errors.Errorf("thread %q has no class", name)
		}

		switch thread.Class {
		case ClassServer:
			servers++
		case ClassMaintenance:
			sweepers++
		}
	}

	if servers == 0 {
		return errors.New("no server thread configured")
	}
	if servers > 1 {
		return errors.New("more than one server thread configured")
	}
	if sweepers > 1 {
		return errors.New("more than one maintenance thread configured")
	}

	return nil
}

func (c *Config) fillDefaults() {
	for _, thread := range c.Threads {
		if thread.Interval == 0 {
			if thread.Class == ClassMaintenance {
				thread.Interval = Duration(defaultMaintenanceInterval)
			} else {
				thread.Interval = Duration(defaultInterval)
			}
		}
		if thread.Timeout == 0 {
			thread.Timeout = Duration(defaultTimeout)
		}

		if thread.Class != ClassServer {
			continue
		}

		if thread.Address == "" {
			thread.Address = defaultAddress
		}
		if thread.Port == 0 {
			thread.Port = defaultPort
		}
		if thread.Location == "" {
			thread.Location = defaultLocation
		}
		if thread.QueryTimeout == 0 {
			thread.QueryTimeout = Duration(defaultQueryTimeout)
		}
		if thread.QueryCacheTTL == 0 {
			thread.QueryCacheTTL = Duration(defaultQueryCacheTTL)
		}
		if thread.WaitStatusInterval == 0 {
			thread.WaitStatusInterval = Duration(defaultWaitStatusInterval)
		}
	}
}
