package host

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Location is lightweight diagnostic information attached to an
// ExecContext, typically the call site that started the invocation.
type Location struct {
	File string
	Line int
}

// HereLocation captures the caller's source location.
func HereLocation() Location {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return Location{}
	}
	return Location{File: filepath.Base(file), Line: line}
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// ExecContext is a per-invocation handle bound to one Host. It is immutable
// once constructed, cheap to copy around, and must not outlive its host.
// Every dispatch call takes one so dispatch never needs a global lookup.
type ExecContext struct {
	host *Host
	loc  Location
	id   ulid.ULID
}

// NewExecContext creates an execution context for one logical invocation.
func (h *Host) NewExecContext(loc Location) *ExecContext {
	return &ExecContext{
		host: h,
		loc:  loc,
		id:   ulid.Make(),
	}
}

// Host returns the host the context is bound to; it makes *ExecContext
// satisfy Dispatcher.
func (ec *ExecContext) Host() *Host { return ec.host }

// Location returns the diagnostic location the context was created with.
func (ec *ExecContext) Location() Location { return ec.loc }

// ID returns the context's activity id, unique per invocation.
func (ec *ExecContext) ID() ulid.ULID { return ec.id }

// Logger returns the host logger annotated with the activity id and
// location, for correlating log lines of one invocation.
func (ec *ExecContext) Logger() *zap.Logger {
	return ec.host.log.With(
		zap.String("activity", ec.id.String()),
		zap.Stringer("location", ec.loc),
	)
}
