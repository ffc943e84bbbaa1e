package wasip1

import (
	"crypto/rand"
	"io"
	"os"
	"sync"
	"time"
)

// FirstPreopenFd is the descriptor of the first mount root.
const FirstPreopenFd = 3

// MountRoot maps a guest directory to a host directory.
type MountRoot struct {
	Guest string
	Host  string
}

// Environment is the process state a guest sees through WASI.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Random io.Reader
	Now    func() time.Time
	start  time.Time
	Args   []string
	// Environ holds KEY=VALUE entries.
	Environ    []string
	MountRoots []MountRoot
	startOnce  sync.Once
}

// NewEnvironment returns an environment wired to the host process streams,
// crypto/rand and the wall clock.
func NewEnvironment(args, environ []string) *Environment {
	return &Environment{
		Args:    args,
		Environ: environ,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Random:  rand.Reader,
		Now:     time.Now,
	}
}

func (e *Environment) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// monotonic returns nanoseconds since the first monotonic clock read.
func (e *Environment) monotonic() uint64 {
	e.startOnce.Do(func() { e.start = time.Now() })
	return uint64(time.Since(e.start))
}

func (e *Environment) preopen(fd int32) (MountRoot, bool) {
	i := int(fd) - FirstPreopenFd
	if i < 0 || i >= len(e.MountRoots) {
		return MountRoot{}, false
	}
	return e.MountRoots[i], true
}

func (e *Environment) output(fd int32) (io.Writer, bool) {
	switch fd {
	case 1:
		return e.Stdout, e.Stdout != nil
	case 2:
		return e.Stderr, e.Stderr != nil
	default:
		return nil, false
	}
}
