package check

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/pkg/probe"
	"github.com/AlekseyChudov/rscheck/pkg/status"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// QueryArg is one parsed key/value pair from the request query string.
type QueryArg struct {
	Name  string
	Value string
}

// Aggregator composes the latest check outcomes and the memoized per-request
// query outcome into a single verdict for the HTTP layer. It owns the
// process-wide query timeout and query cache TTL.
type Aggregator struct {
	store        *status.Store
	cache        *status.QueryCache
	queryTimeout time.Duration
	cacheTTL     time.Duration
	errorMessage bool

	virtualIfProbe func(ifname string, ips []string) probe.Probe
}

func NewAggregator(store *status.Store, cache *status.QueryCache, serverCfg *config.Thread) *Aggregator {
	return &Aggregator{
		store:          store,
		cache:          cache,
		queryTimeout:   serverCfg.QueryTimeout.Unwrap(),
		cacheTTL:       serverCfg.QueryCacheTTL.Unwrap(),
		errorMessage:   serverCfg.ErrorMessageEnabled(),
		virtualIfProbe: probe.NewVirtualInterface,
	}
}

// CacheTTL is the single process-wide query cache TTL, shared with the
// maintenance sweeper.
func (a *Aggregator) CacheTTL() time.Duration {
	return a.cacheTTL
}

// RunQuery returns the memoized outcome for queryKey, evaluating the query
// synchronously on a cache miss. Two concurrent misses may both evaluate;
// the last store wins, which is fine since query evaluation is idempotent.
func (a *Aggregator) RunQuery(queryKey string, args []QueryArg) status.Outcome {
	if queryKey == "" {
		return status.Outcome{}
	}

	if outcome, ok := a.cache.Lookup(queryKey, a.cacheTTL); ok {
		return outcome
	}

	outcome := a.evaluate(args)
	a.cache.Store(queryKey, outcome)

	return outcome
}

// Snapshot reports whether everything is healthy and the message to render:
// the non-empty messages of the winning side joined by "; " (query message
// first, then check messages ordered by name), or "true"/"false".
func (a *Aggregator) Snapshot(queryKey string, exclude map[string]struct{}) (bool, string) {
	var queryOutcome *status.Outcome
	if queryKey != "" {
		if outcome, ok := a.cache.Lookup(queryKey, a.cacheTTL); ok {
			queryOutcome = &outcome
		}
	}

	checks := a.store.Snapshot(exclude)

	healthy := queryOutcome == nil || queryOutcome.OK()
	for _, outcome := range checks {
		healthy = healthy && outcome.OK()
	}

	var messages []string
	if queryOutcome != nil && queryOutcome.OK() == healthy && queryOutcome.Message != "" {
		messages = append(messages, queryOutcome.Message)
	}

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if outcome := checks[name]; outcome.OK() == healthy && outcome.Message != "" {
			messages = append(messages, outcome.Message)
		}
	}

	if len(messages) == 0 {
		if healthy {
			return true, "true"
		}
		return false, "false"
	}

	return healthy, strings.Join(messages, "; ")
}

// AllHealthy is the predicate of Snapshot's OK branch.
func (a *Aggregator) AllHealthy(queryKey string, exclude map[string]struct{}) bool {
	healthy, _ := a.Snapshot(queryKey, exclude)
	return healthy
}

func (a *Aggregator) evaluate(args []QueryArg) status.Outcome {
	if err := a.runQueryChecks(args); err != nil {
		log.WithFields(log.Fields{"kind": "query"}).Error(err)

		if !a.errorMessage {
			return status.Error("")
		}
		return status.Error(fmt.Sprintf("query error: %s", err))
	}

	return status.OK("")
}

func (a *Aggregator) runQueryChecks(args []QueryArg) error {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		values[arg.Name] = arg.Value
	}

	for _, arg := range args {
		switch arg.Name {
		case "exclude", "virtual_ip":
			// data for other rules
		case "virtual_if":
			ips, ok := values["virtual_ip"]
			if !ok {
				return errors.New("virtual_if and virtual_ip must be used together")
			}

			ctx, cancel := context.WithTimeout(context.Background(), a.queryTimeout)
			_, err := a.virtualIfProbe(arg.Value, strings.Split(ips, ",")).Exec(ctx)
			cancel()

			if err != nil {
				return err
			}
		default:
			return errors.Errorf("invalid check %q", arg.Name)
		}
	}

	if _, ok := values["virtual_ip"]; ok {
		if _, ok := values["virtual_if"]; !ok {
			return errors.New("virtual_if and virtual_ip must be used together")
		}
	}

	return nil
}
