package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldervall/takkalkyl/internal/catalog"
	"github.com/aldervall/takkalkyl/internal/http/middleware"
	"github.com/aldervall/takkalkyl/internal/model"
	"github.com/aldervall/takkalkyl/internal/service"
)

type Handler struct {
	calculations *service.CalculationService
	catalog      *service.CatalogService
	log          zerolog.Logger
}

func NewHandler(calculations *service.CalculationService, catalogService *service.CatalogService, log zerolog.Logger) *Handler {
	return &Handler{calculations: calculations, catalog: catalogService, log: log}
}

type calculationInputRequest struct {
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerAddress string `json:"customerAddress"`
	OwnerAmount     int    `json:"ownerAmount" binding:"required"`

	Area           int  `json:"area"`
	Raspont        int  `json:"raspont"`
	RaspontRivning bool `json:"raspontRivning"`

	RoofTypeID        *string `json:"roofTypeId"`
	MaterialTypeID    *string `json:"materialTypeId"`
	ScaffoldingSizeID *string `json:"scaffoldingSizeId"`
	ChimneyTypeID     *string `json:"chimneyTypeId"`

	Underlay   string             `json:"underlay"`
	Categories map[string]float64 `json:"categories"`
	ExtraWork  string             `json:"extraWork"`
	Milage     int                `json:"milage"`

	AdvancedScaffolding bool `json:"advancedScaffolding"`
	TwoFloorScaffolding bool `json:"twoFloorScaffolding"`
}

type calculationResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"userId"`
	TotalCost       int                    `json:"totalCost"`
	LaborCost       int                    `json:"laborCost"`
	MaterialCost    int                    `json:"materialCost"`
	RotAvdrag       int                    `json:"rotAvdrag"`
	MarginPrice     *int                   `json:"marginPrice,omitempty"`
	MarginPercent   *int                   `json:"marginPercent,omitempty"`
	CalculationType model.CalculationType  `json:"calculationType"`
	InputData       model.CalculationInput `json:"inputData"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func toCalculationResponse(calculation *model.Calculation) calculationResponse {
	return calculationResponse{
		ID:              calculation.ID,
		UserID:          calculation.UserID,
		TotalCost:       calculation.TotalCost,
		LaborCost:       calculation.LaborCost,
		MaterialCost:    calculation.MaterialCost,
		RotAvdrag:       calculation.RotAvdrag,
		MarginPrice:     calculation.MarginPrice,
		MarginPercent:   calculation.MarginPercent,
		CalculationType: calculation.CalculationType,
		InputData:       calculation.InputData,
		CreatedAt:       calculation.CreatedAt,
	}
}

func (h *Handler) createCalculation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req calculationInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := toCalculationInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calculation, err := h.calculations.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCalculationResponse(calculation))
}

func (h *Handler) listCalculations(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	calculations, err := h.calculations.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	responses := make([]calculationResponse, 0, len(calculations))
	for i := range calculations {
		responses = append(responses, toCalculationResponse(&calculations[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) getCalculation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	calculation, err := h.calculations.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCalculationResponse(calculation))
}

func (h *Handler) deleteCalculation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.calculations.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// marginPercent is optional; the service falls back to the configured
// slider default when it is omitted.
type pricePreviewRequest struct {
	MarginPercent *int `json:"marginPercent"`
}

func (h *Handler) pricePreview(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req pricePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payable, err := h.calculations.PricePreview(c.Request.Context(), principal, id, req.MarginPercent)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"marginPrice": payable.MarginPrice,
		"rotAvdrag":   payable.RotAvdrag,
		"priceToPay":  payable.PriceToPay,
	})
}

type setPipelineRequest struct {
	CalculationType string `json:"calculationType" binding:"required"`
	MarginPercent   *int   `json:"marginPercent" binding:"required"`
}

func (h *Handler) setPipeline(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req setPipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calculationType := model.CalculationType(strings.ToLower(strings.TrimSpace(req.CalculationType)))
	calculation, err := h.calculations.SetPipeline(c.Request.Context(), principal, id, calculationType, *req.MarginPercent)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCalculationResponse(calculation))
}

func (h *Handler) catalogOverview(c *gin.Context) {
	overview, err := h.catalog.Overview(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrMissingConstant):
		// Catalog misconfiguration. Keep the detail in the log, not the response.
		h.log.Error().Err(err).Msg("pricing configuration incomplete")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pricing configuration incomplete"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toCalculationInput(req calculationInputRequest) (model.CalculationInput, error) {
	roofTypeID, err := parseOptionalID(req.RoofTypeID, "roofTypeId")
	if err != nil {
		return model.CalculationInput{}, err
	}
	materialTypeID, err := parseOptionalID(req.MaterialTypeID, "materialTypeId")
	if err != nil {
		return model.CalculationInput{}, err
	}
	scaffoldingSizeID, err := parseOptionalID(req.ScaffoldingSizeID, "scaffoldingSizeId")
	if err != nil {
		return model.CalculationInput{}, err
	}
	chimneyTypeID, err := parseOptionalID(req.ChimneyTypeID, "chimneyTypeId")
	if err != nil {
		return model.CalculationInput{}, err
	}

	return model.CalculationInput{
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		CustomerEmail:       req.CustomerEmail,
		CustomerAddress:     req.CustomerAddress,
		OwnerAmount:         req.OwnerAmount,
		Area:                req.Area,
		Raspont:             req.Raspont,
		RaspontRivning:      req.RaspontRivning,
		RoofTypeID:          roofTypeID,
		MaterialTypeID:      materialTypeID,
		ScaffoldingSizeID:   scaffoldingSizeID,
		ChimneyTypeID:       chimneyTypeID,
		Underlay:            model.UnderlayType(req.Underlay),
		Categories:          req.Categories,
		ExtraWork:           req.ExtraWork,
		Milage:              req.Milage,
		AdvancedScaffolding: req.AdvancedScaffolding,
		TwoFloorScaffolding: req.TwoFloorScaffolding,
	}, nil
}

func parseOptionalID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, errors.New("invalid " + field)
	}
	return &id, nil
}
