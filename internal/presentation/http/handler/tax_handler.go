package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/request"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// TaxHandler handles the global VAT settings
type TaxHandler struct {
	taxService *service.TaxService
	clock      service.Clock
}

// NewTaxHandler creates a new tax handler
func NewTaxHandler(taxService *service.TaxService, clock service.Clock) *TaxHandler {
	return &TaxHandler{taxService: taxService, clock: clock}
}

// List returns the tax infos valid now
// @Summary List Taxes
// @Tags taxes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /taxes [get]
func (h *TaxHandler) List(c *gin.Context) {
	infos, err := h.taxService.ListActive(c.Request.Context(), h.clock.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Taxes retrieved successfully", response.NewTaxInfoList(infos))
}

// History lists every version of one usage
// @Summary Tax History
// @Tags taxes
// @Security BearerAuth
// @Param usage path string true "standard or reduced"
// @Router /taxes/{usage}/history [get]
func (h *TaxHandler) History(c *gin.Context) {
	usage, ok := enum.ParseTaxUsage(c.Param("usage"))
	if !ok {
		response.BadRequest(c, "Unknown tax usage")
		return
	}

	infos, err := h.taxService.History(c.Request.Context(), usage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax history retrieved successfully", response.NewTaxInfoList(infos))
}

// ReplaceRate continues a usage with a new VAT rate
// @Summary Replace VAT Rate
// @Tags taxes
// @Security BearerAuth
// @Accept json
// @Param usage path string true "standard or reduced"
// @Param request body request.ReplaceRateRequest true "New rate in percent"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /taxes/{usage}/rate [post]
func (h *TaxHandler) ReplaceRate(c *gin.Context) {
	usage, ok := enum.ParseTaxUsage(c.Param("usage"))
	if !ok {
		response.BadRequest(c, "Unknown tax usage")
		return
	}
	var req request.ReplaceRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil || rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		response.BadRequest(c, "Rate must be a percentage in [0, 100)")
		return
	}

	info, err := h.taxService.ReplaceVATRate(c.Request.Context(), usage, rate, instantOr(req.At, h.clock.Now()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "VAT rate replaced", response.NewTaxInfoResponse(info))
}
