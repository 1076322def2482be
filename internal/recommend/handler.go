package recommend

import (
	"net/http"

	"portal_final_backend/internal/orchestrator"
	"portal_final_backend/platform/httpkit"
	"portal_final_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles the recommendation endpoint.
type Handler struct {
	pipeline *orchestrator.Pipeline
	val      *validator.Validator
}

func NewHandler(pipeline *orchestrator.Pipeline) *Handler {
	return &Handler{pipeline: pipeline, val: validator.New()}
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(c *gin.Context) {
	var body RequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(body); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result := h.pipeline.Run(c.Request.Context(), toRequest(body))
	httpkit.OK(c, toResponseBody(result))
}
