package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	sweeps  int
	lastTTL time.Duration
}

func (s *fakeSweeper) Sweep(ttl time.Duration) int {
	s.sweeps++
	s.lastTTL = ttl
	return 3
}

func TestMaintenanceProbeSweepsWithProcessWideTTL(t *testing.T) {
	sweeper := &fakeSweeper{}
	p := &maintenanceProbe{cache: sweeper, ttl: 5 * time.Second}

	message, err := p.Exec(context.Background())

	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Equal(t, 1, sweeper.sweeps)
	assert.Equal(t, 5*time.Second, sweeper.lastTTL)
}
