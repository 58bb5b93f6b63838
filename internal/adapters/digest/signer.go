// Package digest produces task signatures from strings, bytes and source files.
package digest

import (
	"encoding/binary"
	"hash"
	"io"
	"os"

	godigest "github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"
)

var (
	// ErrSignerNotFinished is returned when the signature is read before Finish.
	ErrSignerNotFinished = zerr.New("The hash has not yet been calculated. Call 'Finish' to calculate the hash.")

	// ErrSignerFinished is returned when data is digested after Finish.
	ErrSignerFinished = zerr.New("The hash has already been calculated. No more data can be digested.")

	// ErrSourceUnreadable is returned when a source file cannot be digested.
	ErrSourceUnreadable = zerr.New("failed to digest source file")
)

// Signer accumulates chunks into a SHA-256 signature.
//
// Every chunk is prefixed with its length, so the chunk boundaries are part of
// the signature: Digest("ab").Digest("c") differs from Digest("a").Digest("bc").
// Digest methods return the signer for chaining. The first error is kept and
// reported by Signature and HexSignature.
type Signer struct {
	digester godigest.Digester
	hash     hash.Hash
	result   godigest.Digest
	finished bool
	err      error
}

// NewSigner creates an empty Signer.
func NewSigner() *Signer {
	d := godigest.Canonical.Digester()
	return &Signer{digester: d, hash: d.Hash()}
}

// Digest adds str to the signature.
func (s *Signer) Digest(str string) *Signer {
	if !s.writable() {
		return s
	}
	s.writeLength(uint64(len(str)))
	_, _ = io.WriteString(s.hash, str)
	return s
}

// DigestBytes adds b to the signature.
func (s *Signer) DigestBytes(b []byte) *Signer {
	if !s.writable() {
		return s
	}
	s.writeLength(uint64(len(b)))
	_, _ = s.hash.Write(b)
	return s
}

// DigestSource adds the path of file followed by its contents.
func (s *Signer) DigestSource(file string) *Signer {
	if !s.writable() {
		return s
	}
	s.Digest(file)

	f, err := os.Open(file) //nolint:gosec // Source paths are chosen by the task
	if err != nil {
		s.err = zerr.With(zerr.Wrap(err, ErrSourceUnreadable.Error()), "path", file)
		return s
	}
	defer f.Close() //nolint:errcheck // Read-only file

	info, err := f.Stat()
	if err != nil {
		s.err = zerr.With(zerr.Wrap(err, ErrSourceUnreadable.Error()), "path", file)
		return s
	}

	size := info.Size()
	s.writeLength(uint64(size))
	if _, err := io.CopyN(s.hash, f, size); err != nil {
		s.err = zerr.With(zerr.Wrap(err, ErrSourceUnreadable.Error()), "path", file)
	}
	return s
}

// DigestSources calls DigestSource for every file in order.
func (s *Signer) DigestSources(files []string) *Signer {
	for _, file := range files {
		s.DigestSource(file)
	}
	return s
}

// Finish computes the signature. Further digest calls fail.
func (s *Signer) Finish() *Signer {
	if s.finished {
		return s
	}
	s.finished = true
	s.result = s.digester.Digest()
	return s
}

// Signature returns the raw 32-byte signature.
func (s *Signer) Signature() ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return FromHex(s.result.Encoded())
}

// HexSignature returns the signature as lower-case hex.
func (s *Signer) HexSignature() (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	return s.result.Encoded(), nil
}

func (s *Signer) check() error {
	if s.err != nil {
		return s.err
	}
	if !s.finished {
		return ErrSignerNotFinished
	}
	return nil
}

func (s *Signer) writable() bool {
	if s.err != nil {
		return false
	}
	if s.finished {
		s.err = ErrSignerFinished
		return false
	}
	return true
}

func (s *Signer) writeLength(n uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	_, _ = s.hash.Write(buf[:])
}
