package repair

import (
	"fmt"
	"io"
)

// Sink receives the human-readable result lines of a repair run.
// One call per line; implementations append the line terminator.
type Sink interface {
	Printf(format string, args ...any)
}

// WriterSink writes result lines to an io.Writer, one per call.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Printf(format string, args ...any) {
	fmt.Fprintf(s.W, format+"\n", args...)
}
