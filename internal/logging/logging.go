// Package logging provides the three independent log sinks spec.md models
// after the original's per-purpose static loggers: Rslt carries the
// analysis results a user asked for, Demo carries a human-readable trace of
// what the tool is doing, and Dbug carries diagnostics (collisions, parse
// warnings, internal errors) nobody needs unless something looks wrong.
// Each is started, attached to a destination, flushed, and stopped
// independently — wired onto log/slog rather than a hand-rolled writer, the
// way ckb's LoggerFactory wires its subsystem loggers onto slog.
package logging

import (
	"io"
	"log/slog"
)

// Sink is one independently controllable logging channel.
type Sink struct {
	name   string
	logger *slog.Logger
	closer io.Closer
	active bool
}

func newSink(name string) *Sink {
	return &Sink{name: name, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Rslt, Demo, and Dbug are the three sinks every run has available, mirroring
// the original's StaticLogger<0>/<1>/<2> (result/demo/debug) channels.
var (
	Rslt = newSink("rslt")
	Demo = newSink("demo")
	Dbug = newSink("dbug")
)

// Attach points s at w, replacing any previous destination. Attaching does
// not implicitly start the sink — callers still call Start.
func (s *Sink) Attach(w io.Writer, closer io.Closer) {
	s.closer = closer
	s.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Start marks the sink as accepting writes. A stopped sink's Log calls are
// silently dropped — the attached handler is untouched so Start/Stop can
// toggle without losing the destination.
func (s *Sink) Start() { s.active = true }

// Stop marks the sink as not accepting writes.
func (s *Sink) Stop() { s.active = false }

// Flush is a no-op for the plain text handler but exists so callers that
// attach a buffering io.Writer have a defined point to flush it — ported
// from the original's explicit flushLogger() call before shutdown.
func (s *Sink) Flush() {}

// Close stops the sink and closes its attached destination, if any.
func (s *Sink) Close() error {
	s.Stop()
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}

// Log writes msg plus key/value pairs to the sink if it is active.
func (s *Sink) Log(msg string, args ...any) {
	if !s.active {
		return
	}
	s.logger.Info(msg, args...)
}

// Active reports whether the sink currently accepts writes.
func (s *Sink) Active() bool { return s.active }
