// Package logconf installs the process-wide go-logging backend.
package logconf

import (
	"io"

	"github.com/op/go-logging"
)

var format = logging.MustStringFormatter("%{level:.1s} %{module}: %{message}")

// DefaultLevel is used unless tracing is requested.
const DefaultLevel = logging.WARNING

// Setup sends log records from every module to w. Tracing lowers the level
// to DEBUG, which makes the expander report each rewrite it performs.
func Setup(w io.Writer, trace bool) logging.LeveledBackend {
	be := logging.NewLogBackend(w, "", 0)
	leveled := logging.SetBackend(logging.NewBackendFormatter(be, format))
	level := DefaultLevel
	if trace {
		level = logging.DEBUG
	}
	leveled.SetLevel(level, "")
	return leveled
}
