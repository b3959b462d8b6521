package probe

import (
	"testing"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownClasses(t *testing.T) {
	_, err := New(&config.Thread{Class: "telepathy"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown check class "telepathy"`)
}

func TestNewBuildsEveryRegisteredClass(t *testing.T) {
	env := &Env{Cache: &fakeSweeper{}, CacheTTL: time.Second}

	threads := []*config.Thread{
		{Class: "dns", Host: "127.0.0.1"},
		{Class: "default_routes"},
		{Class: "interfaces", Interfaces: []string{"lo"}},
		{Class: "tcp", Host: "127.0.0.1", Port: 80},
		{Class: "udp_request", Host: "127.0.0.1", Port: 53, Response: "pong"},
		{Class: "url", URL: "http://127.0.0.1/"},
		{Class: "sysctl", Variables: map[string]interface{}{"net.ipv4.ip_forward": 1}},
		{Class: "status_file", StatusFile: "/run/app.status"},
		{Class: "maintenance"},
		{Class: "redis", Host: "127.0.0.1"},
		{Class: "mysql", Host: "127.0.0.1"},
		{Class: "amqp", Host: "127.0.0.1"},
		{Class: "mongodb", Host: "127.0.0.1"},
	}

	for _, thread := range threads {
		p, err := New(thread, env)
		require.NoError(t, err, thread.Class)
		assert.NotNil(t, p, thread.Class)
	}
}

func TestNewValidatesRequiredParameters(t *testing.T) {
	env := &Env{Cache: &fakeSweeper{}, CacheTTL: time.Second}

	for _, thread := range []*config.Thread{
		{Class: "dns"},
		{Class: "interfaces"},
		{Class: "tcp", Host: "127.0.0.1"},
		{Class: "tcp", Port: 80},
		{Class: "udp_request", Host: "127.0.0.1"},
		{Class: "url"},
		{Class: "sysctl"},
		{Class: "status_file"},
		{Class: "redis"},
		{Class: "mongodb"},
	} {
		_, err := New(thread, env)
		assert.Error(t, err, thread.Class)
	}
}

func TestMaintenanceRequiresACache(t *testing.T) {
	_, err := New(&config.Thread{Class: "maintenance"}, nil)
	assert.Error(t, err)

	_, err = New(&config.Thread{Class: "maintenance"}, &Env{})
	assert.Error(t, err)
}

func TestDNSRejectsUnknownQueryTypes(t *testing.T) {
	_, err := New(&config.Thread{Class: "dns", Host: "127.0.0.1", QType: "BOGUS"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dns query type")
}

func TestUDPRequestRejectsInvalidPatterns(t *testing.T) {
	_, err := New(&config.Thread{Class: "udp_request", Host: "127.0.0.1", Port: 53, Response: "("}, nil)

	assert.Error(t, err)
}
