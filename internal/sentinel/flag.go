package sentinel

import "sync/atomic"

// Flag is the daemon's shared cancellation flag. The signal handler is the
// only writer; the run loop and the connect backoff are the readers. Keeping
// it a bare atomic bool means the handler never touches other shared state.
type Flag struct {
	v atomic.Bool
}

func NewFlag() *Flag {
	return &Flag{}
}

func (f *Flag) Set() {
	f.v.Store(true)
}

func (f *Flag) IsSet() bool {
	return f.v.Load()
}
