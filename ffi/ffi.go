// Package ffi is the foreign-function boundary: a thin, opaque-handle
// passthrough over the Query API for embedding VTC in other language
// runtimes. It adds no semantics beyond the core engine; its
// only job is translating between Go values and a narrow, serializable
// surface a C caller (or any cgo-compatible host) can drive. Operations
// return a Status code rather than a Go error, and the handle table is an
// in-process map rather than a socket protocol, since cgo calls are
// already in-process.
package ffi

import (
	"sync"

	"github.com/dpyte/vtc"
	"github.com/dpyte/vtc/serializer"
	"github.com/dpyte/vtc/value"
)

// Status is the boundary's null/non-zero result code, since a C caller
// cannot receive a Go error value directly.
type Status int

const (
	StatusOK Status = iota
	StatusError
)

// Handle identifies one Env across the boundary. Zero is never a valid
// handle.
type Handle uint64

var (
	mu      sync.Mutex
	nextID  Handle = 1
	handles        = make(map[Handle]*vtc.Env)
	lastErr        = make(map[Handle]string)
)

// New creates a new Env and returns its Handle. Callers must eventually
// call Free.
func New() Handle {
	mu.Lock()
	defer mu.Unlock()
	h := nextID
	nextID++
	handles[h] = vtc.New()
	return h
}

// Free releases the Env associated with h. h is invalid after this call.
func Free(h Handle) {
	mu.Lock()
	defer mu.Unlock()
	delete(handles, h)
	delete(lastErr, h)
}

func lookup(h Handle) (*vtc.Env, bool) {
	mu.Lock()
	defer mu.Unlock()
	e, ok := handles[h]
	return e, ok
}

func setErr(h Handle, err error) Status {
	mu.Lock()
	defer mu.Unlock()
	if err == nil {
		delete(lastErr, h)
		return StatusOK
	}
	lastErr[h] = err.Error()
	return StatusError
}

// LastError returns the message of the most recent failure on h, owned by
// the caller per the "owner returns strings must be freed" discipline of
// the FFI boundary — in Go there is no explicit free, but
// callers embedding this via cgo should copy the string into
// caller-managed memory and not retain the Go-backed pointer.
func LastError(h Handle) string {
	mu.Lock()
	defer mu.Unlock()
	return lastErr[h]
}

// LoadText parses src and adds its namespaces to h's environment, each
// replacing any same-named namespace already present.
func LoadText(h Handle, src string) Status {
	e, ok := lookup(h)
	if !ok {
		return StatusError
	}
	return setErr(h, e.LoadText(src))
}

// LoadFile reads path and adds its namespaces to h's environment, each
// replacing any same-named namespace already present.
func LoadFile(h Handle, path string) Status {
	e, ok := lookup(h)
	if !ok {
		return StatusError
	}
	return setErr(h, e.LoadFile(path))
}

// GetString resolves (ns, varName) with no accessors and requires a
// String result. The boundary exposes only the no-accessor form; richer
// accessor paths are expected to be expressed as VTC references in the
// loaded source rather than constructed across the FFI boundary.
func GetString(h Handle, ns, varName string) (string, Status) {
	e, ok := lookup(h)
	if !ok {
		return "", StatusError
	}
	s, err := e.GetString(ns, varName, nil)
	return s, setErr(h, err)
}

// GetInteger resolves (ns, varName) with no accessors and requires an
// integer-identity result.
func GetInteger(h Handle, ns, varName string) (int64, Status) {
	e, ok := lookup(h)
	if !ok {
		return 0, StatusError
	}
	i, err := e.GetInteger(ns, varName, nil)
	return i, setErr(h, err)
}

// GetFloat resolves (ns, varName) with no accessors and requires a Float
// result.
func GetFloat(h Handle, ns, varName string) (float64, Status) {
	e, ok := lookup(h)
	if !ok {
		return 0, StatusError
	}
	f, err := e.GetFloat(ns, varName, nil)
	return f, setErr(h, err)
}

// GetBoolean resolves (ns, varName) with no accessors and requires a
// Boolean result.
func GetBoolean(h Handle, ns, varName string) (bool, Status) {
	e, ok := lookup(h)
	if !ok {
		return false, StatusError
	}
	b, err := e.GetBoolean(ns, varName, nil)
	return b, setErr(h, err)
}

// Dump writes the full environment at h to path.
func Dump(h Handle, path string) Status {
	e, ok := lookup(h)
	if !ok {
		return StatusError
	}
	return setErr(h, e.Dump(path, serializer.DefaultFormat))
}

// AddValueString is a narrow mutator exposed across the boundary for
// hosts that only need to inject string constants (the common case for
// embedding configuration from another runtime); richer values should be
// built by loading VTC text instead.
func AddValueString(h Handle, ns, varName, s string) Status {
	e, ok := lookup(h)
	if !ok {
		return StatusError
	}
	return setErr(h, e.AddValue(ns, varName, value.String(s)))
}
