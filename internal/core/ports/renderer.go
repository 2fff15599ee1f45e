package ports

import (
	"io"

	"go.trai.ch/mill/internal/core/domain"
)

// Renderer formats the status view of a pipeline.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// RenderStatus writes one row per registered task, in registration order.
	RenderStatus(w io.Writer, rows []domain.StatusRow) error
}
