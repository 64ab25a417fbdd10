package risk

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matricare/matricare/internal/platform/auth"
)

type Handler struct {
	svc   *Service
	store *ArtifactStore
}

func NewHandler(svc *Service, store *ArtifactStore) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/risk")
	g.POST("/predict", h.Predict, auth.RequireRole("mother", "doctor"))
	g.GET("/health", h.Health)
}

// Predict handles POST /risk/predict. Validation failures are 422 with field
// detail, missing artifacts are 503, and internal inference failures never
// surface as errors — the service resolves them to the fail-safe 200 body.
func (h *Handler) Predict(c echo.Context) error {
	var req AssessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.Assess(&req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "validation failed",
				"fields": verr.Fields,
			})
		}
		if errors.Is(err, ErrModelUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Health handles GET /risk/health, reporting artifact load state.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Health())
}
