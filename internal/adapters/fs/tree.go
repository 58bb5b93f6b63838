package fs

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileTree = (*Tree)(nil)

// Tree implements ports.FileTree on the local filesystem.
type Tree struct {
	walker *Walker
}

// NewTree creates a new Tree.
func NewTree(walker *Walker) *Tree {
	return &Tree{walker: walker}
}

// ListFiles returns the files under root as sorted, slash-separated relative paths.
func (t *Tree) ListFiles(root string) ([]string, error) {
	var files []string
	for rel, err := range t.walker.WalkFiles(root) {
		if err != nil {
			return nil, err
		}
		files = append(files, rel)
	}
	slices.Sort(files)
	return files, nil
}

// CopyTree copies every file under src into dst, creating directories as needed.
// Existing files in dst are overwritten.
func (t *Tree) CopyTree(src, dst string) error {
	for rel, err := range t.walker.WalkFiles(src) {
		if err != nil {
			return err
		}
		from := filepath.Join(src, filepath.FromSlash(rel))
		to := filepath.Join(dst, filepath.FromSlash(rel))
		if err := copyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

// RecreateDir removes dir if present and creates it empty.
func (t *Tree) RecreateDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove directory"), "path", dir)
	}
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dir)
	}
	return nil
}

func copyFile(from, to string) error {
	info, err := os.Lstat(from)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", from)
	}

	if err := os.MkdirAll(filepath.Dir(to), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(to))
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(from)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", from)
		}
		_ = os.Remove(to)
		if err := os.Symlink(target, to); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", to)
		}
		return nil
	}

	in, err := os.Open(from) //nolint:gosec // Path comes from walking a directory we own
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open file"), "path", from)
	}
	defer in.Close() //nolint:errcheck // Read-only file

	//nolint:gosec // Path is derived from the output directory
	out, err := os.OpenFile(to, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", to)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", to)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", to)
	}
	return nil
}

// FilesByExt returns the absolute paths of every file under dir whose name ends
// with ext, sorted. A missing dir yields no files. Files inside any of the
// exclude directories are left out.
func FilesByExt(dir, ext string, exclude ...string) ([]string, error) {
	return Glob(dir, "**/*"+ext, exclude...)
}

// Glob returns the absolute paths of every file under dir matching the
// doublestar pattern, sorted. A missing dir yields no files.
// The pattern is matched relative to dir; files inside any of the exclude
// directories are left out.
func Glob(dir, pattern string, exclude ...string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve directory"), "path", dir)
	}

	skip := make([]string, 0, len(exclude))
	for _, ex := range exclude {
		if ex == "" {
			continue
		}
		exAbs, err := filepath.Abs(ex)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve directory"), "path", ex)
		}
		skip = append(skip, exAbs)
	}

	rel, err := doublestar.Glob(os.DirFS(abs), strings.TrimPrefix(pattern, "/"), doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid glob pattern"), "pattern", pattern)
	}

	matches := make([]string, 0, len(rel))
	for _, m := range rel {
		path := filepath.Join(abs, filepath.FromSlash(m))
		if !excluded(path, skip) {
			matches = append(matches, path)
		}
	}
	slices.Sort(matches)
	return matches, nil
}

func excluded(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
