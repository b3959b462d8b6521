package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/pkg/check"
	"github.com/AlekseyChudov/rscheck/pkg/status"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Aggregator is the part of the check aggregator the HTTP layer consumes.
type Aggregator interface {
	RunQuery(queryKey string, args []check.QueryArg) status.Outcome
	Snapshot(queryKey string, exclude map[string]struct{}) (bool, string)
	AllHealthy(queryKey string, exclude map[string]struct{}) bool
}

// Server answers GET and HEAD status requests for the load balancer. GET
// always responds 200 and carries the verdict in the body; HEAD carries it
// in the response code (200/503).
type Server struct {
	addr               string
	location           string
	keepAlive          bool
	waitStatusInterval time.Duration
	waitStatusTimeout  time.Duration
	version            string
	agg                Aggregator
}

func New(cfg *config.Thread, agg Aggregator, version string) *Server {
	return &Server{
		addr:               net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port)),
		location:           cfg.Location,
		keepAlive:          cfg.KeepAliveEnabled(),
		waitStatusInterval: cfg.WaitStatusInterval.Unwrap(),
		waitStatusTimeout:  cfg.WaitStatusTimeout.Unwrap(),
		version:            version,
		agg:                agg,
	}
}

// Run blocks until the listener fails or ctx is cancelled. onReady is called
// once, after the startup gate has passed and the listener accepts
// connections.
func (s *Server) Run(ctx context.Context, onReady func()) error {
	s.waitForStatus(ctx)

	if ctx.Err() != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.addr)
	}

	server := http.Server{Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.WithFields(log.Fields{"kind": "server", "addr": s.addr, "location": s.location}).Info("listening")

	if onReady != nil {
		onReady()
	}

	if err := server.Serve(listener); err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Handler() http.Handler {
	m := mux.NewRouter()
	m.Path(s.location).Methods(http.MethodGet, http.MethodHead).HandlerFunc(s.handleStatus)
	return m
}

// waitForStatus delays exposure until the first healthy verdict or until
// the configured timeout, whichever comes first. With a zero timeout the
// listener starts immediately.
func (s *Server) waitForStatus(ctx context.Context) {
	if s.waitStatusTimeout <= 0 {
		return
	}

	log.Info("waiting for first healthy status")

	deadline := time.Now().Add(s.waitStatusTimeout)
	ticker := time.NewTicker(s.waitStatusInterval)
	defer ticker.Stop()

	for {
		if s.agg.AllHealthy("", nil) {
			return
		}
		if time.Now().After(deadline) {
			log.Warn("status still unhealthy, starting to listen anyway")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) handleStatus(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("Server", "RSCheck/"+s.version)

	rawQuery := req.URL.RawQuery

	args, err := ParseQueryArgs(rawQuery)
	if err != nil {
		log.WithFields(log.Fields{"kind": "server"}).Error(err)
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	if len(args) > 0 {
		s.agg.RunQuery(rawQuery, args)
	}

	healthy, message := s.agg.Snapshot(rawQuery, excludeSet(args))

	if !s.keepAlive {
		res.Header().Set("Connection", "close")
	}

	if req.Method == http.MethodHead {
		if s.keepAlive {
			res.Header().Set("Content-Length", "0")
		}
		if !healthy {
			res.WriteHeader(http.StatusServiceUnavailable)
		}
		return
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.keepAlive {
		res.Header().Set("Content-Length", strconv.Itoa(len(message)))
	}
	_, _ = res.Write([]byte(message))
}
