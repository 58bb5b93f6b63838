// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/bud/internal/core/domain"
)

// Executor defines the interface for running external commands on behalf of tasks.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and waits for it to finish.
	//
	// The command's environment is layered over the process environment.
	// It returns an error if the command cannot be started or exits unsuccessfully.
	Execute(ctx context.Context, cmd *domain.Command) error
}
