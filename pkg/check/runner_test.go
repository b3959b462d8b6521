package check

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/pkg/status"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	message string
	err     error
	panics  bool
	calls   int32
}

func (p *fakeProbe) Exec(_ context.Context) (string, error) {
	atomic.AddInt32(&p.calls, 1)

	if p.panics {
		panic("kaboom")
	}
	return p.message, p.err
}

func testThread() *config.Thread {
	return &config.Thread{
		Interval: config.Duration(10 * time.Millisecond),
		Timeout:  config.Duration(time.Second),
	}
}

func TestRunnerSuccessOmitsStatusMessageByDefault(t *testing.T) {
	store := status.NewStore([]string{"c1"})
	runner := NewRunner("c1", &fakeProbe{message: "gw=10.0.0.1"}, testThread(), store)

	outcome := runner.cycle(context.Background())

	assert.True(t, outcome.OK())
	assert.Empty(t, outcome.Message)
}

func TestRunnerSuccessKeepsStatusMessageWhenEnabled(t *testing.T) {
	statusMessage := true
	cfg := testThread()
	cfg.StatusMessage = &statusMessage

	store := status.NewStore([]string{"c1"})
	runner := NewRunner("c1", &fakeProbe{message: "gw=10.0.0.1"}, cfg, store)

	outcome := runner.cycle(context.Background())

	assert.True(t, outcome.OK())
	assert.Equal(t, "gw=10.0.0.1", outcome.Message)
}

func TestRunnerErrorMessageCarriesCheckNameAndCause(t *testing.T) {
	store := status.NewStore([]string{"c2"})
	runner := NewRunner("c2", &fakeProbe{err: errors.New("boom")}, testThread(), store)

	outcome := runner.cycle(context.Background())

	require.False(t, outcome.OK())
	assert.Equal(t, "c2 error: boom", outcome.Message)
}

func TestRunnerErrorMessageSuppressedWhenDisabled(t *testing.T) {
	errorMessage := false
	cfg := testThread()
	cfg.ErrorMessage = &errorMessage

	store := status.NewStore([]string{"c2"})
	runner := NewRunner("c2", &fakeProbe{err: errors.New("boom")}, cfg, store)

	outcome := runner.cycle(context.Background())

	require.False(t, outcome.OK())
	assert.Empty(t, outcome.Message)
}

func TestRunnerRecoversFromProbePanic(t *testing.T) {
	store := status.NewStore([]string{"c1"})
	probe := &fakeProbe{panics: true}
	runner := NewRunner("c1", probe, testThread(), store)

	outcome := runner.cycle(context.Background())
	require.False(t, outcome.OK())
	assert.Contains(t, outcome.Message, "probe panic")

	// the fault must not leave the loop in a broken state
	outcome = runner.cycle(context.Background())
	require.False(t, outcome.OK())
	assert.EqualValues(t, 2, atomic.LoadInt32(&probe.calls))
}

func TestRunnerPublishesIntoStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := status.NewStore([]string{"c1"})
	probe := &fakeProbe{}
	go NewRunner("c1", probe, testThread(), store).Run(ctx)

	require.Eventually(t, func() bool {
		return !store.Get("c1").Timestamp.IsZero()
	}, time.Second, time.Millisecond)
}

func TestRunnerPanickingProbeDoesNotAffectOtherChecks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := status.NewStore([]string{"good", "bad"})
	go NewRunner("good", &fakeProbe{}, testThread(), store).Run(ctx)
	go NewRunner("bad", &fakeProbe{panics: true}, testThread(), store).Run(ctx)

	require.Eventually(t, func() bool {
		return !store.Get("good").Timestamp.IsZero() && !store.Get("bad").Timestamp.IsZero()
	}, time.Second, time.Millisecond)

	assert.True(t, store.Get("good").OK())
	assert.False(t, store.Get("bad").OK())
}
