package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/request"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/response"
)

// CatalogHandler handles sales items and their offers
type CatalogHandler struct {
	catalogService *service.CatalogService
	clock          service.Clock
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, clock service.Clock) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, clock: clock}
}

// ListOffers lists the offers valid at an instant, now by default
// @Summary List Offers
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Param kind query string false "product, extra, variation or promo"
// @Param at query string false "RFC 3339 instant"
// @Success 200 {object} response.APIResponse
// @Router /catalog/offers [get]
func (h *CatalogHandler) ListOffers(c *gin.Context) {
	var query request.OffersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	at := h.clock.Now()
	if query.At != "" {
		parsed, err := time.Parse(time.RFC3339, query.At)
		if err != nil {
			response.BadRequest(c, "Invalid instant")
			return
		}
		at = parsed
	}

	var kind *enum.OfferKind
	if query.Kind != "" {
		k, ok := enum.ParseOfferKind(query.Kind)
		if !ok {
			response.BadRequest(c, "Unknown offer kind")
			return
		}
		kind = &k
	}

	offers, err := h.catalogService.ListActiveOffers(c.Request.Context(), at, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Offers retrieved successfully", response.NewOfferList(offers))
}

// ListSalesItems lists the sales items valid now
// @Summary List Sales Items
// @Tags catalog
// @Security BearerAuth
// @Router /catalog/items [get]
func (h *CatalogHandler) ListSalesItems(c *gin.Context) {
	items, err := h.catalogService.ListActiveSalesItems(c.Request.Context(), h.clock.Now(), nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sales items retrieved successfully", items)
}

// CreateSalesItem handles creating a sales item
// @Summary Create Sales Item
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Param request body request.CreateSalesItemRequest true "Sales item"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /catalog/items [post]
func (h *CatalogHandler) CreateSalesItem(c *gin.Context) {
	var req request.CreateSalesItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	kind, ok := enum.ParseOfferKind(req.Kind)
	if !ok {
		response.BadRequest(c, "Unknown offer kind")
		return
	}

	item, err := h.catalogService.CreateSalesItem(c.Request.Context(), &service.CreateSalesItemInput{
		Kind:      kind,
		Name:      req.Name,
		ValidFrom: req.ValidFrom,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sales item created successfully", item)
}

// CreateOffer handles pricing a sales item
// @Summary Create Offer
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Param request body request.CreateOfferRequest true "Offer"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /catalog/offers [post]
func (h *CatalogHandler) CreateOffer(c *gin.Context) {
	var req request.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	offer, err := h.catalogService.CreateOffer(c.Request.Context(), &service.CreateOfferInput{
		SalesItemID: uuid.MustParse(req.SalesItemID),
		Amount:      req.Amount,
		ValidFrom:   req.ValidFrom,
		ValidTo:     req.ValidTo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Offer created successfully", response.NewOfferResponse(offer))
}

// ReplacePrice continues an offer at a new price
// @Summary Replace Offer Price
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Param id path string true "Offer ID"
// @Param request body request.ReplacePriceRequest true "New price"
// @Success 200 {object} response.APIResponse
// @Router /catalog/offers/{id}/price [post]
func (h *CatalogHandler) ReplacePrice(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.ReplacePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	offer, err := h.catalogService.ReplaceOfferPrice(c.Request.Context(), id, req.Amount, instantOr(req.At, h.clock.Now()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Offer price replaced", response.NewOfferResponse(offer))
}

// Archive ends an offer now
// @Summary Archive Offer
// @Tags catalog
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Router /catalog/offers/{id}/archive [post]
func (h *CatalogHandler) Archive(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	offer, err := h.catalogService.ArchiveOffer(c.Request.Context(), id, h.clock.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Offer archived", response.NewOfferResponse(offer))
}

// History lists every price the offer's sales item had
// @Summary Offer History
// @Tags catalog
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Router /catalog/offers/{id}/history [get]
func (h *CatalogHandler) History(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	history, err := h.catalogService.OfferHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Offer history retrieved successfully", response.NewOfferList(history))
}
