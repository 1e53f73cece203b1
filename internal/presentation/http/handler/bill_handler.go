package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/request"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/response"
	"github.com/sangkips/oscr-register/pkg/pagination"
)

// BillHandler answers queries over stored bills
type BillHandler struct {
	billService *service.BillService
	location    *time.Location
}

// NewBillHandler creates a new bill handler. Days are read in loc.
func NewBillHandler(billService *service.BillService, loc *time.Location) *BillHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BillHandler{billService: billService, location: loc}
}

// Open lists the bills that are not closed yet
// @Summary Open Bills
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /bills/open [get]
func (h *BillHandler) Open(c *gin.Context) {
	bills, err := h.billService.GetOpenBills(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Open bills retrieved successfully", response.NewBillList(bills))
}

// ForDay lists the bills closed on a day, excluding staff bills
// @Summary Bills For Day
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param day query string true "Day as YYYY-MM-DD"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(15)
// @Success 200 {object} response.APIResponse
// @Router /bills [get]
func (h *BillHandler) ForDay(c *gin.Context) {
	var query request.BillsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}
	day, err := time.ParseInLocation(time.DateOnly, query.Day, h.location)
	if err != nil {
		response.BadRequest(c, "Invalid day")
		return
	}

	bills, err := h.billService.GetBillsForDay(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := pagination.Window(response.NewBillList(bills), &pagination.PaginationParams{
		Page:    query.Page,
		PerPage: query.PerPage,
	})
	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", page)
}

// Totals sums today's or yesterday's bills
// @Summary Day Totals
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param period query string false "today or yesterday" default(today)
// @Param metric query string false "total or promo_total" default(total)
// @Success 200 {object} response.APIResponse
// @Router /bills/totals [get]
func (h *BillHandler) Totals(c *gin.Context) {
	var query request.TotalsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	period := enum.PeriodToday
	if query.Period != "" {
		period = enum.Period(query.Period)
	}
	metric, ok := enum.ParseTotalMetric(query.Metric)
	if !ok {
		response.BadRequest(c, "Invalid metric")
		return
	}

	calc, err := h.billService.GetTotalFor(c.Request.Context(), period, metric)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Totals calculated", response.NewTotalsResponse(period, calc))
}
