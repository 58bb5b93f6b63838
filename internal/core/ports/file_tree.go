package ports

// FileTree provides the directory operations used to merge task outputs.
//
//go:generate go run go.uber.org/mock/mockgen -source=file_tree.go -destination=mocks/mock_file_tree.go -package=mocks
type FileTree interface {
	// ListFiles returns the regular files under root as sorted, slash-separated relative paths.
	// A missing root yields no files.
	ListFiles(root string) ([]string, error)

	// CopyTree copies the contents of src into dst, preserving relative structure.
	CopyTree(src, dst string) error

	// RecreateDir removes dir if present and creates it empty.
	RecreateDir(dir string) error
}
