// Package vtcfile is the file-system boundary adapter: it reads VTC source
// from disk and loads it into an Environment, and writes a serialized
// Environment back to disk atomically. Both are thin wrappers over the
// core read/mutate API.
package vtcfile

import (
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/dpyte/vtc/environment"
	"github.com/dpyte/vtc/vtcerr"
)

// LoadFile reads path and loads its namespaces into env with
// Environment.Load's semantics (a same-named namespace is replaced, not
// merged): read the file, surface I/O errors so
// callers can branch on vtcerr.FileReadError, then parse.
func LoadFile(env *environment.Environment, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return vtcerr.Wrap(vtcerr.FileReadError, err, path)
	}
	return env.Load(string(data))
}

// Save writes text to path atomically via a renameio.PendingFile, so a
// crash or interruption mid-write can never leave a truncated or
// corrupted file at the target path.
func Save(path, text string) error {
	dirPath := filepath.Dir(path)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return vtcerr.Wrap(vtcerr.FileWriteError, err, "mkdir "+dirPath)
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return vtcerr.Wrap(vtcerr.FileWriteError, err, path)
	}
	defer pf.Cleanup()

	if _, err := pf.Write([]byte(text)); err != nil {
		return vtcerr.Wrap(vtcerr.FileWriteError, err, path)
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return vtcerr.Wrap(vtcerr.FileWriteError, err, path)
	}
	return nil
}
