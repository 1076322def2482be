package recommend

import (
	apphttp "portal_final_backend/internal/http"
	"portal_final_backend/internal/orchestrator"
)

// Module is the recommend bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the recommend module.
func NewModule(pipeline *orchestrator.Pipeline) *Module {
	return &Module{handler: NewHandler(pipeline)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "recommend"
}

// RegisterRoutes mounts the recommendation route on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/recommendations", m.handler.Recommend)
}

var _ apphttp.Module = (*Module)(nil)
