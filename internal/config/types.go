package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ClassServer      = "server"
	ClassMaintenance = "maintenance"
)

// Duration accepts either a Go duration string ("500ms", "3s") or a bare
// number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var seconds float64
	if err := value.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds * float64(time.Second)))
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %s", s, err)
	}

	*d = Duration(parsed)
	return nil
}

func (d Duration) Unwrap() time.Duration {
	return time.Duration(d)
}

type Logging struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Thread configures one supervised thread: the HTTP server, the query cache
// maintenance sweeper, or a periodic check. Class selects the variant; the
// per-class constructors validate which of the remaining fields they need.
type Thread struct {
	Class string `yaml:"class"`

	// common check parameters
	Interval      Duration `yaml:"interval"`
	Timeout       Duration `yaml:"timeout"`
	ErrorMessage  *bool    `yaml:"error_message"`
	StatusMessage *bool    `yaml:"status_message"`

	// network endpoints
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// dns
	TCP   bool   `yaml:"tcp"`
	QName string `yaml:"qname"`
	QType string `yaml:"qtype"`

	// interfaces
	Interfaces []string `yaml:"interfaces"`

	// tcp
	UseSSL bool `yaml:"use_ssl"`

	// udp_request / url
	Request         string `yaml:"request"`
	Response        string `yaml:"response"`
	MaxResponseSize int    `yaml:"max_response_size"`
	URL             string `yaml:"url"`

	// sysctl
	Variables map[string]interface{} `yaml:"variables"`

	// status_file
	StatusFile    string   `yaml:"status_file"`
	StatusFileTTL Duration `yaml:"status_file_ttl"`
	ErrorString   string   `yaml:"error_string"`
	SuccessString string   `yaml:"success_string"`

	// redis / mysql / amqp / mongodb
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	VirtualHost string `yaml:"virtual_host"`

	// server
	Address            string   `yaml:"address"`
	Location           string   `yaml:"location"`
	KeepAlive          *bool    `yaml:"keep_alive"`
	QueryTimeout       Duration `yaml:"query_timeout"`
	QueryCacheTTL      Duration `yaml:"query_cache_ttl"`
	WaitStatusInterval Duration `yaml:"wait_status_interval"`
	WaitStatusTimeout  Duration `yaml:"wait_status_timeout"`
}

func (t *Thread) ErrorMessageEnabled() bool {
	return t.ErrorMessage == nil || *t.ErrorMessage
}

func (t *Thread) StatusMessageEnabled() bool {
	return t.StatusMessage != nil && *t.StatusMessage
}

func (t *Thread) KeepAliveEnabled() bool {
	return t.KeepAlive == nil || *t.KeepAlive
}

type Config struct {
	Logging Logging            `yaml:"logging"`
	Threads map[string]*Thread `yaml:"threads"`
}

// CheckNames returns the names of all threads that publish outcomes into the
// result store, i.e. everything except the server thread.
func (c *Config) CheckNames() []string {
	names := make([]string, 0, len(c.Threads))
	for name, thread := range c.Threads {
		if thread.Class == ClassServer {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Server returns the single configured server thread.
func (c *Config) Server() (string, *Thread) {
	for name, thread := range c.Threads {
		if thread.Class == ClassServer {
			return name, thread
		}
	}
	return "", nil
}
