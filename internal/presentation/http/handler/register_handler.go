package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/request"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/response"
)

// RegisterHandler drives the bill of one register. Every command runs under
// the register's lock and answers with the bill as it is afterwards.
type RegisterHandler struct {
	registry       *service.SessionRegistry
	billService    *service.BillService
	catalogService *service.CatalogService
	userService    *service.UserService
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(
	registry *service.SessionRegistry,
	billService *service.BillService,
	catalogService *service.CatalogService,
	userService *service.UserService,
) *RegisterHandler {
	return &RegisterHandler{
		registry:       registry,
		billService:    billService,
		catalogService: catalogService,
		userService:    userService,
	}
}

type registerCommand func(ctx context.Context, session *service.Session) error

// run executes cmd on the register named in the path and renders the
// resulting bill
func (h *RegisterHandler) run(c *gin.Context, message string, cmd registerCommand) {
	ctx := c.Request.Context()
	var view *response.BillResponse
	err := h.registry.Do(c.Param("register"), func(session *service.Session) error {
		if err := cmd(ctx, session); err != nil {
			return err
		}
		view = response.NewBillResponse(session.CurrentBill())
		return nil
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, view)
}

// resolveOffer binds the offer request and loads the offer valid now
func (h *RegisterHandler) resolveOffer(c *gin.Context) (*entity.Offer, bool) {
	var req request.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return nil, false
	}
	offer, err := h.catalogService.ResolveCurrentOffer(c.Request.Context(), uuid.MustParse(req.OfferID))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return offer, true
}

// Current returns the open bill of the register
// @Summary Current Bill
// @Tags register
// @Security BearerAuth
// @Produce json
// @Param register path string true "Register ID"
// @Success 200 {object} response.APIResponse
// @Router /registers/{register} [get]
func (h *RegisterHandler) Current(c *gin.Context) {
	h.run(c, "Bill retrieved successfully", func(context.Context, *service.Session) error {
		return nil
	})
}

// AddItem sells a product, opening a bill when needed
// @Summary Add Product
// @Tags register
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param register path string true "Register ID"
// @Param request body request.OfferRequest true "Product offer"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /registers/{register}/items [post]
func (h *RegisterHandler) AddItem(c *gin.Context) {
	offer, ok := h.resolveOffer(c)
	if !ok {
		return
	}
	h.run(c, "Item added", func(ctx context.Context, s *service.Session) error {
		_, err := h.billService.AddProductOffer(ctx, s, offer)
		return err
	})
}

// AddExtra attaches an extra to the last item
// @Summary Add Extra
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/extras [post]
func (h *RegisterHandler) AddExtra(c *gin.Context) {
	offer, ok := h.resolveOffer(c)
	if !ok {
		return
	}
	h.run(c, "Extra added", func(ctx context.Context, s *service.Session) error {
		return h.billService.AddExtraOffer(ctx, s, offer)
	})
}

// SetVariation toggles a variation on the last item
// @Summary Toggle Variation
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/variation [post]
func (h *RegisterHandler) SetVariation(c *gin.Context) {
	offer, ok := h.resolveOffer(c)
	if !ok {
		return
	}
	h.run(c, "Variation changed", func(ctx context.Context, s *service.Session) error {
		return h.billService.SetVariationOffer(ctx, s, offer)
	})
}

// SetPromo attaches a promotion to the last item
// @Summary Add Promo
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/promo [post]
func (h *RegisterHandler) SetPromo(c *gin.Context) {
	offer, ok := h.resolveOffer(c)
	if !ok {
		return
	}
	h.run(c, "Promotion added", func(ctx context.Context, s *service.Session) error {
		return h.billService.SetPromoOffer(ctx, s, offer)
	})
}

// ToggleVAT switches the open bill between standard and reduced VAT
// @Summary Toggle VAT
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/vat/toggle [post]
func (h *RegisterHandler) ToggleVAT(c *gin.Context) {
	h.run(c, "VAT changed", h.billService.ToggleStandardAndReducedVAT)
}

// SetStaffConsumer books the open bill on a staff member
// @Summary Set Staff Consumer
// @Tags register
// @Security BearerAuth
// @Accept json
// @Param request body request.StaffConsumerRequest true "Staff member"
// @Router /registers/{register}/staff [put]
func (h *RegisterHandler) SetStaffConsumer(c *gin.Context) {
	var req request.StaffConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	user, err := h.userService.ResolveActive(c.Request.Context(), uuid.MustParse(req.UserID))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.run(c, "Staff consumer set", func(ctx context.Context, s *service.Session) error {
		return h.billService.SetStaffConsumer(ctx, s, user)
	})
}

// ClearStaffConsumer makes the open bill a regular sale again
// @Summary Clear Staff Consumer
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/staff [delete]
func (h *RegisterHandler) ClearStaffConsumer(c *gin.Context) {
	h.run(c, "Staff consumer cleared", h.billService.ClearStaffConsumer)
}

// SetFreePromotion gives the open bill away
// @Summary Set Free Promotion
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/free-promotion [put]
func (h *RegisterHandler) SetFreePromotion(c *gin.Context) {
	h.run(c, "Free promotion set", h.billService.SetFreePromotion)
}

// ClearFreePromotion charges the open bill again
// @Summary Clear Free Promotion
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/free-promotion [delete]
func (h *RegisterHandler) ClearFreePromotion(c *gin.Context) {
	h.run(c, "Free promotion cleared", h.billService.ClearFreePromotion)
}

// SetToGo marks the open bill as take-away
// @Summary Set To Go
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/to-go [put]
func (h *RegisterHandler) SetToGo(c *gin.Context) {
	h.run(c, "Bill is to go", func(ctx context.Context, s *service.Session) error {
		return h.billService.SetToGo(ctx, s, true)
	})
}

// ClearToGo marks the open bill as eat-in
// @Summary Clear To Go
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/to-go [delete]
func (h *RegisterHandler) ClearToGo(c *gin.Context) {
	h.run(c, "Bill is eat-in", func(ctx context.Context, s *service.Session) error {
		return h.billService.SetToGo(ctx, s, false)
	})
}

// Undo removes the last item
// @Summary Undo
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/undo [post]
func (h *RegisterHandler) Undo(c *gin.Context) {
	h.run(c, "Last action undone", h.billService.UndoLastAction)
}

// Close closes the open bill for the logged in operator and answers with
// the closed bill
// @Summary Close Bill
// @Tags register
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the first response when repeated"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /registers/{register}/close [post]
func (h *RegisterHandler) Close(c *gin.Context) {
	ctx := c.Request.Context()
	var closed *entity.Bill
	err := h.registry.Do(c.Param("register"), func(s *service.Session) error {
		var err error
		closed, err = h.billService.CloseBill(ctx, s)
		return err
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill closed", response.NewBillResponse(closed))
}

// New parks the open bill and leaves the register empty
// @Summary New Bill
// @Tags register
// @Security BearerAuth
// @Router /registers/{register}/new [post]
func (h *RegisterHandler) New(c *gin.Context) {
	h.run(c, "Register cleared", func(_ context.Context, s *service.Session) error {
		h.billService.NewBill(s)
		return nil
	})
}

// Load makes a parked open bill the register's current bill
// @Summary Load Bill
// @Tags register
// @Security BearerAuth
// @Param bill path string true "Bill ID"
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /registers/{register}/load/{bill} [post]
func (h *RegisterHandler) Load(c *gin.Context) {
	billID, ok := parseUUIDParam(c, "bill")
	if !ok {
		return
	}
	h.run(c, "Bill loaded", func(ctx context.Context, s *service.Session) error {
		_, err := h.billService.LoadBill(ctx, s, billID)
		return err
	})
}
