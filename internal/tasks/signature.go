// Package tasks provides ready-made build tasks for the build engine.
package tasks

import (
	"go.trai.ch/bud/internal/adapters/digest"
	"go.trai.ch/bud/internal/core/domain"
)

// StandardSignature signs a task by its dependencies' signatures and its salts.
// Tasks that read nothing from the source directory can use it as-is.
func StandardSignature(deps []*domain.BuildTaskResult, salts ...string) (string, error) {
	signer := digest.NewSigner().Digest("Dependencies:")
	for _, dep := range deps {
		signer.Digest(dep.TaskSignature)
	}
	signer.Digest("Salts:")
	for _, salt := range salts {
		signer.Digest(salt)
	}
	return signer.Finish().HexSignature()
}
