package ports

// OutputStore manages the per-signature output directories under a meta directory.
//
// A task writes into a staged partial directory which is promoted to the done
// directory in one atomic step once the task succeeds.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type OutputStore interface {
	// Reset creates the done directory and deletes and recreates the partial directory.
	Reset(metaDir string) error

	// Lookup returns the done directory of signature and whether it exists.
	Lookup(metaDir, signature string) (string, bool, error)

	// Stage creates an empty partial directory for signature and returns its path.
	Stage(metaDir, signature string) (string, error)

	// Promote moves the partial directory of signature to its done directory and returns the latter.
	Promote(metaDir, signature string) (string, error)
}
