package server

import (
	"errors"
	"fmt"
	"runtime/debug"

	"typethrough/buffer"
	"typethrough/logger"
	"typethrough/metrics"

	"github.com/neovim/go-client/nvim"
)

// session binds the handlers to one Neovim connection. Editor state is read
// from Neovim on every call, so the plugin only sends what Neovim cannot
// know (request IDs and model output).
type session struct {
	handlers *Handlers
	buf      *buffer.NvimBuffer
	config   Config
}

func newSession(n *nvim.Nvim, handlers *Handlers, config Config) *session {
	return &session{
		handlers: handlers,
		buf:      buffer.New(n),
		config:   config,
	}
}

// register installs the RPC methods on n.
func (s *session) register(n *nvim.Nvim) error {
	methods := map[string]any{
		"typethrough_request":     s.request,
		"typethrough_ready":       s.ready,
		"typethrough_failed":      s.failed,
		"typethrough_render":      s.render,
		"typethrough_accept":      s.accept,
		"typethrough_accept_word": s.acceptWord,
		"typethrough_accept_line": s.acceptLine,
		"typethrough_reject":      s.reject,
		"typethrough_forget":      s.forget,
		"typethrough_stats":       s.stats,
	}
	for name, fn := range methods {
		if err := n.RegisterHandler(name, fn); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}

// ErrHandlerPanic is returned to Neovim when a handler panicked.
var ErrHandlerPanic = errors.New("handler panicked")

// guard converts a panic in an RPC handler into an error reply.
func guard(method string, err *error) {
	if r := recover(); r != nil {
		logger.Error("%s panic: %v\n%s", method, r, debug.Stack())
		*err = fmt.Errorf("%s: %v: %w", method, r, ErrHandlerPanic)
	}
}

func (s *session) sync() error {
	if err := s.buf.Sync(); err != nil {
		logger.Error("error syncing buffer: %v", err)
		return err
	}
	return nil
}

func (s *session) bufferID() int {
	return int(s.buf.ID())
}

// edit returns the text typed since the start of the anchor line and the
// text after the cursor.
func (s *session) edit() (typed, suffix string) {
	cursor := s.buf.Cursor()
	suffix = s.buf.Suffix(cursor, s.config.MaxSuffixLines)

	anchor, ok := s.handlers.Anchor(s.bufferID())
	if !ok {
		return "", suffix
	}
	return s.buf.Span(anchor.LineStart(), cursor), suffix
}

func (s *session) request() (id string, err error) {
	defer guard("typethrough_request", &err)
	if err := s.sync(); err != nil {
		return "", err
	}
	return s.handlers.Request(s.bufferID(), s.buf.Cursor(), s.buf.LinePrefix()), nil
}

func (s *session) ready(buf int, id, completion string) (err error) {
	defer guard("typethrough_ready", &err)
	if err = s.handlers.Ready(buf, id, completion); err != nil {
		logger.Debug("ready %s: %v", id, err)
	}
	return err
}

func (s *session) failed(buf int, id, message string) (err error) {
	defer guard("typethrough_failed", &err)
	return s.handlers.Fail(buf, id, message)
}

func (s *session) render() (ghost *GhostReply, err error) {
	defer guard("typethrough_render", &err)
	if err := s.sync(); err != nil {
		return nil, err
	}
	typed, suffix := s.edit()
	return s.handlers.Render(s.bufferID(), s.buf.Cursor(), typed, suffix), nil
}

func (s *session) accept() (string, error) {
	return s.acceptWith(s.handlers.Accept)
}

func (s *session) acceptWord() (string, error) {
	return s.acceptWith(s.handlers.AcceptWord)
}

func (s *session) acceptLine() (string, error) {
	return s.acceptWith(s.handlers.AcceptLine)
}

func (s *session) acceptWith(accept func(buf int, typed, suffix string) (string, error)) (inserted string, err error) {
	defer guard("typethrough_accept", &err)
	if err := s.sync(); err != nil {
		return "", err
	}
	typed, suffix := s.edit()
	return accept(s.bufferID(), typed, suffix)
}

func (s *session) reject() (err error) {
	defer guard("typethrough_reject", &err)
	if err := s.sync(); err != nil {
		return err
	}
	s.handlers.Reject(s.bufferID())
	return nil
}

func (s *session) forget(buf int) (err error) {
	defer guard("typethrough_forget", &err)
	s.handlers.Forget(buf)
	return nil
}

func (s *session) stats() (metrics.Stats, error) {
	return s.handlers.Stats(), nil
}
