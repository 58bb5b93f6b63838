// Package cas implements the signature-addressed output store under the meta directory.
package cas

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.OutputStore on the local filesystem.
//
// Finished outputs live in <meta>/.done/<signature>. Tasks write into
// <meta>/.partial/<signature>, which is renamed into place once the task succeeds,
// so a done directory is never observed half-written.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Reset creates the done directory and wipes the partial directory.
func (s *Store) Reset(metaDir string) error {
	if err := os.MkdirAll(domain.DoneDir(metaDir), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreResetFailed.Error()), "meta_dir", metaDir)
	}

	partial := domain.PartialDir(metaDir)
	if err := os.RemoveAll(partial); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreResetFailed.Error()), "meta_dir", metaDir)
	}
	if err := os.MkdirAll(partial, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreResetFailed.Error()), "meta_dir", metaDir)
	}
	return nil
}

// Lookup reports whether a promoted output exists for signature.
func (s *Store) Lookup(metaDir, signature string) (string, bool, error) {
	done, err := resolve(domain.DoneDirFor, metaDir, signature)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(done)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return done, false, nil
		}
		return "", false, zerr.With(zerr.Wrap(err, domain.ErrStoreLookupFailed.Error()), "signature", signature)
	}
	if !info.IsDir() {
		return "", false, zerr.With(zerr.With(domain.ErrStoreLookupFailed, "signature", signature), "reason", "not a directory")
	}
	return done, true, nil
}

// Stage creates an empty partial directory for signature.
// Leftovers from an earlier attempt in the same build are removed first.
func (s *Store) Stage(metaDir, signature string) (string, error) {
	partial, err := resolve(domain.PartialDirFor, metaDir, signature)
	if err != nil {
		return "", err
	}

	if err := os.RemoveAll(partial); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreStageFailed.Error()), "signature", signature)
	}
	if err := os.MkdirAll(partial, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreStageFailed.Error()), "signature", signature)
	}
	return partial, nil
}

// Promote renames the partial directory of signature to its done directory.
func (s *Store) Promote(metaDir, signature string) (string, error) {
	partial, err := resolve(domain.PartialDirFor, metaDir, signature)
	if err != nil {
		return "", err
	}
	done, err := resolve(domain.DoneDirFor, metaDir, signature)
	if err != nil {
		return "", err
	}

	// A done directory left by an interrupted promote would make the rename fail.
	if err := os.RemoveAll(done); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStorePromoteFailed.Error()), "signature", signature)
	}
	if err := os.Rename(partial, done); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStorePromoteFailed.Error()), "signature", signature)
	}
	return done, nil
}

// resolve validates signature and returns the absolute directory produced by dirFor.
func resolve(dirFor func(metaDir, signature string) string, metaDir, signature string) (string, error) {
	if err := validateSignature(signature); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dirFor(metaDir, signature))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrInvalidSignature.Error()), "signature", signature)
	}
	return abs, nil
}

func validateSignature(signature string) error {
	switch {
	case signature == "", signature == ".", signature == "..":
		return zerr.With(domain.ErrInvalidSignature, "signature", signature)
	case strings.ContainsAny(signature, `/\`+string(os.PathSeparator)):
		return zerr.With(domain.ErrInvalidSignature, "signature", signature)
	default:
		return nil
	}
}
