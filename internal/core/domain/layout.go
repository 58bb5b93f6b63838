package domain

import "path/filepath"

const (
	// DefaultMetaDir is the default directory holding the build cache.
	DefaultMetaDir = ".bud"

	// DefaultOutputDir is the default directory receiving the merged build output.
	DefaultOutputDir = "build"

	// DoneDirName is the name of the directory holding promoted task outputs.
	DoneDirName = ".done"

	// PartialDirName is the name of the scratch directory for in-flight task outputs.
	PartialDirName = ".partial"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "bud.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DoneDir returns the directory holding promoted outputs under metaDir.
func DoneDir(metaDir string) string {
	return filepath.Join(metaDir, DoneDirName)
}

// PartialDir returns the scratch directory under metaDir.
func PartialDir(metaDir string) string {
	return filepath.Join(metaDir, PartialDirName)
}

// DoneDirFor returns the promoted output directory of a signature.
func DoneDirFor(metaDir, signature string) string {
	return filepath.Join(metaDir, DoneDirName, signature)
}

// PartialDirFor returns the scratch directory of a signature.
func PartialDirFor(metaDir, signature string) string {
	return filepath.Join(metaDir, PartialDirName, signature)
}
