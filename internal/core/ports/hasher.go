package ports

// Hasher computes fast, non-cryptographic fingerprints of directory trees.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeTreeHash fingerprints the relative paths and contents of every file under root.
	ComputeTreeHash(root string) (string, error)
}
