package universe

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joefazee/omen/app/api"
	"github.com/joefazee/omen/internal/validator"
	"github.com/joefazee/omen/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateUniverse creates a new universe.
func (h *Handler) CreateUniverse(c *gin.Context) {
	var req CreateUniverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	universe, err := h.service.CreateUniverse(c.Request.Context(), &req)
	if err != nil {
		if models.IsValidationError(err) || errors.Is(err, models.ErrInvalidCurrencyCode) {
			api.BadRequestResponse(c, err.Error())
			return
		}
		api.InternalErrorResponse(c, "Failed to create universe")
		return
	}

	api.CreatedResponse(c, "Universe created successfully", universe)
}

// GetUniverse returns a universe with its open interest.
func (h *Handler) GetUniverse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid universe ID format")
		return
	}

	universe, err := h.service.GetUniverse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Universe")
			return
		}
		api.InternalErrorResponse(c, "Failed to get universe")
		return
	}

	api.SuccessResponse(c, 200, "Universe retrieved successfully", universe)
}

// ListUniverses returns all universes.
func (h *Handler) ListUniverses(c *gin.Context) {
	universes, err := h.service.ListUniverses(c.Request.Context())
	if err != nil {
		api.InternalErrorResponse(c, "Failed to list universes")
		return
	}

	api.ListResponse(c, "Universes retrieved successfully", universes, len(universes))
}

// CreateYesNoMarket creates a binary market in the universe.
func (h *Handler) CreateYesNoMarket(c *gin.Context) {
	universeID, caller, ok := h.marketCreationContext(c)
	if !ok {
		return
	}

	var req CreateYesNoMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	market, err := h.service.CreateYesNoMarket(c.Request.Context(), universeID, caller, &req)
	if err != nil {
		h.handleMarketCreationError(c, err)
		return
	}

	api.CreatedResponse(c, "Market created successfully", market)
}

// CreateCategoricalMarket creates a market with three or more outcomes.
func (h *Handler) CreateCategoricalMarket(c *gin.Context) {
	universeID, caller, ok := h.marketCreationContext(c)
	if !ok {
		return
	}

	var req CreateCategoricalMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	market, err := h.service.CreateCategoricalMarket(c.Request.Context(), universeID, caller, &req)
	if err != nil {
		h.handleMarketCreationError(c, err)
		return
	}

	api.CreatedResponse(c, "Market created successfully", market)
}

// CreateScalarMarket creates a market over a numeric price range.
func (h *Handler) CreateScalarMarket(c *gin.Context) {
	universeID, caller, ok := h.marketCreationContext(c)
	if !ok {
		return
	}

	var req CreateScalarMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	market, err := h.service.CreateScalarMarket(c.Request.Context(), universeID, caller, &req)
	if err != nil {
		h.handleMarketCreationError(c, err)
		return
	}

	api.CreatedResponse(c, "Market created successfully", market)
}

// GetMarkets lists markets in the universe.
func (h *Handler) GetMarkets(c *gin.Context) {
	universeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid universe ID format")
		return
	}

	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsedLimit, err := strconv.Atoi(l); err == nil {
			limit = parsedLimit
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsedOffset, err := strconv.Atoi(o); err == nil {
			offset = parsedOffset
		}
	}

	markets, err := h.service.GetMarkets(c.Request.Context(), universeID, limit, offset)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get markets")
		return
	}

	api.ListResponse(c, "Markets retrieved successfully", markets, len(markets))
}

// ContainsMarket reports whether the universe recognizes a market.
func (h *Handler) ContainsMarket(c *gin.Context) {
	universeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid universe ID format")
		return
	}
	marketID, err := uuid.Parse(c.Param("market_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid market ID format")
		return
	}

	contains, err := h.service.IsContainerForMarket(c.Request.Context(), universeID, marketID)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to check containment")
		return
	}

	api.SuccessResponse(c, 200, "Containment checked successfully", ContainmentResponse{Contains: contains})
}

// ContainsShareToken reports whether the universe recognizes a share token.
func (h *Handler) ContainsShareToken(c *gin.Context) {
	universeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid universe ID format")
		return
	}
	tokenID, err := uuid.Parse(c.Param("token_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid share token ID format")
		return
	}

	contains, err := h.service.IsContainerForShareToken(c.Request.Context(), universeID, tokenID)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to check containment")
		return
	}

	api.SuccessResponse(c, 200, "Containment checked successfully", ContainmentResponse{Contains: contains})
}

func (h *Handler) marketCreationContext(c *gin.Context) (universeID, caller uuid.UUID, ok bool) {
	universeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid universe ID format")
		return uuid.Nil, uuid.Nil, false
	}

	caller, found := api.AccountFrom(c)
	if !found {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return uuid.Nil, uuid.Nil, false
	}
	return universeID, caller, true
}

func (h *Handler) handleMarketCreationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Universe")
	case models.IsValidationError(err):
		api.BadRequestResponse(c, err.Error())
	default:
		api.InternalErrorResponse(c, "Failed to create market")
	}
}
