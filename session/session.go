package session

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/provreg/epp/frame"
	"github.com/provreg/epp/schema"
	"github.com/provreg/epp/wire"
)

// State is a Session's authentication state.
//
// Transitions happen in exactly two places: a successful <login>
// moves the session to StateAuthenticated, and <logout> or transport
// termination ends it.
type State int

const (
	// StateUnauthenticated is the initial state. The only command
	// accepted is <login>.
	StateUnauthenticated State = iota
	// StateAuthenticated is entered on successful <login>. Every
	// command but a second <login> is accepted.
	StateAuthenticated
)

// Config contains Session configuration. New copies it into each
// Session; the registry, greeting and transaction ID source it refers
// to may be shared by every connection of a server and are read-only
// once the first session starts.
type Config struct {
	// Handlers is the handler registry.
	Handlers Registry
	// Greeting builds <greeting> frames. A nil Greeting advertises
	// defaults only.
	Greeting *frame.Greeting
	// Validator is the schema validation seam. A nil Validator
	// accepts every well-formed frame.
	Validator schema.Validator
	// TRIDs mints server transaction identifiers. Nil selects a
	// process-wide source.
	TRIDs *TRIDSource
	// IdleTimeout bounds the wait for each inbound frame when the
	// stream supports read deadlines. Zero waits forever.
	IdleTimeout time.Duration
	// MaxFrame bounds inbound frame payloads. Zero selects
	// wire.DefaultMaxFrame.
	MaxFrame int
	// Logger receives handler failure and misbehavior warnings. Nil
	// logs to stderr.
	Logger *zerolog.Logger
}

// deadlineReader is the optional stream surface used to bound frame
// reads; net.Conn and tls.Conn provide it.
type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

var processTRIDs = NewTRIDSource()

// Session represents one EPP connection.
type Session struct {
	Config *Config

	rw    io.ReadWriter
	r     *wire.Reader
	w     *wire.Writer
	trids *TRIDSource
	log   zerolog.Logger

	state      State
	seed       string
	clid       string
	lang       string
	objects    Repertoire
	extensions Repertoire
}

// New returns a new Session reading and writing frames on rw.
func New(rw io.ReadWriter, config Config) *Session {
	s := &Session{
		Config: &config,
		rw:     rw,
		r:      wire.NewReader(rw),
		w:      wire.NewWriter(rw),
		trids:  config.TRIDs,
	}
	s.r.Max = config.MaxFrame
	if s.trids == nil {
		s.trids = processTRIDs
	}
	if config.Logger != nil {
		s.log = *config.Logger
	} else {
		s.log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if s.Config.Greeting == nil {
		s.Config.Greeting = frame.NewGreeting(frame.ServerInfo{})
	}
	s.seed = s.trids.Next()
	return s
}

// State returns the session's authentication state.
func (s *Session) State() State { return s.state }

// ClID returns the authenticated client identifier, empty before a
// successful login.
func (s *Session) ClID() string { return s.clid }

// Lang returns the language negotiated at login.
func (s *Session) Lang() string { return s.lang }

// Objects returns the object service repertoire negotiated at login.
func (s *Session) Objects() Repertoire { return s.objects }

// Extensions returns the extension repertoire negotiated at login.
func (s *Session) Extensions() Repertoire { return s.extensions }

// Seed returns the server identifier minted at session start.
func (s *Session) Seed() string { return s.seed }

// Run executes the Session s.
//
// The greeting is sent once, then frames are read, dispatched and
// answered until a response carries a terminal result code.  A read
// failure (EOF, framing error, idle timeout) terminates the session
// without a response.  The stream is closed on exit when it is an
// io.Closer.
func Run(s *Session) {
	defer func() {
		if c, ok := s.rw.(io.Closer); ok {
			c.Close()
		}
	}()
	if _, err := s.w.WriteFrame(frame.Marshal(s.Config.Greeting.Frame(time.Now()))); err != nil {
		s.log.Warn().Err(err).Msg("writing greeting")
		return
	}
	for {
		if dr, ok := s.rw.(deadlineReader); ok && s.Config.IdleTimeout > 0 {
			dr.SetReadDeadline(time.Now().Add(s.Config.IdleTimeout))
		}
		payload, err := s.r.ReadFrame()
		if err != nil {
			// terminate as 2500: no response is owed on a dead or
			// misbehaving transport
			if err != io.EOF {
				s.log.Debug().Err(err).Msg("reading frame")
			}
			return
		}
		out, code := s.dispatch(payload)
		if _, err := s.w.WriteFrame(frame.Marshal(out)); err != nil {
			s.log.Warn().Err(err).Msg("writing response")
			return
		}
		if code.IsTerminal() {
			return
		}
	}
}

// Run executes the session.
func (s *Session) Run() { Run(s) }
