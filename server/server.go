package server

import (
	"context"
	"crypto/tls"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/provreg/epp/config"
	"github.com/provreg/epp/frame"
	"github.com/provreg/epp/schema"
	"github.com/provreg/epp/session"
)

// Server accepts registrar connections and drives one EPP session per
// connection.
type Server struct {
	cfg      *config.Config
	handlers session.Registry
	log      zerolog.Logger

	// Validator is the schema validation seam handed to sessions.
	// Defaults to the structural validator; set before Listen.
	Validator schema.Validator

	trids *session.TRIDSource

	greetOnce sync.Once
	greeting  *frame.Greeting

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
}

// New returns a Server for cfg dispatching to handlers.
//
// The registry must not be mutated after this call: every connection
// reads it concurrently.
func New(cfg *config.Config, handlers session.Registry) *Server {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		log = log.Level(lvl)
	}
	return &Server{
		cfg:       cfg,
		handlers:  handlers,
		log:       log,
		Validator: schema.Structural{},
		trids:     session.NewTRIDSource(),
		conns:     map[net.Conn]struct{}{},
	}
}

// Listen binds the server socket, terminating TLS when the configured
// proto is "ssl".  Call Serve to start accepting connections.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.cfg.Addr())
	}
	if s.cfg.Proto == "ssl" {
		tlsConfig, err := s.tlsConfig()
		if err != nil {
			ln.Close()
			return err
		}
		ln = tls.NewListener(ln, tlsConfig)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.log.Info().Str("addr", ln.Addr().String()).Str("proto", s.cfg.Proto).Msg("listening")
	return nil
}

// Addr returns the listener's address.  Useful when listening on :0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve accepts connections until ctx is cancelled or the listener
// fails.  Each connection runs its session on its own goroutine;
// Serve returns once the listener is closed and in-flight accepts
// have unwound.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("Serve called before Listen")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return s.Close()
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return errors.Wrap(err, "accepting connection")
			}
			s.track(conn, true)
			go s.serveConn(conn)
		}
	})
	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Close closes the listener and every tracked connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.listener != nil {
		err = s.listener.Close()
		s.listener = nil
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = map[net.Conn]struct{}{}
	return err
}

func (s *Server) track(conn net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.track(conn, false)
	log := s.log.With().
		Str("conn", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	log.Debug().Msg("connection accepted")
	sess := session.New(conn, session.Config{
		Handlers:    s.handlers,
		Greeting:    s.greetingFrame(),
		Validator:   s.Validator,
		TRIDs:       s.trids,
		IdleTimeout: s.cfg.IdleDuration(),
		MaxFrame:    s.cfg.MaxFrame,
		Logger:      &log,
	})
	sess.Run()
	log.Debug().Str("clid", sess.ClID()).Msg("connection closed")
}

// greetingFrame resolves the greeting metadata once per server by
// invoking the hello handler, and reuses the built Greeting for every
// connection.
func (s *Server) greetingFrame() *frame.Greeting {
	s.greetOnce.Do(func() {
		var info frame.ServerInfo
		if h, ok := s.handlers[session.EventHello]; ok {
			switch ret, err := h(&session.Request{}); {
			case err != nil:
				s.log.Warn().Err(err).Msg("hello handler failed, greeting with defaults")
			default:
				switch v := ret.(type) {
				case frame.ServerInfo:
					info = v
				case *frame.ServerInfo:
					info = *v
				default:
					s.log.Warn().Msgf("hello handler returned %T, greeting with defaults", ret)
				}
			}
		}
		s.greeting = frame.NewGreeting(info)
	})
	return s.greeting
}
