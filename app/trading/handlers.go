package trading

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/omen/app/api"
	"github.com/joefazee/omen/internal/logger"
	"github.com/joefazee/omen/internal/validator"
	"github.com/joefazee/omen/models"
)

type Handler struct {
	service Service
	logger  logger.Logger
}

func NewHandler(service Service, l logger.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// BuyCompleteSets mints complete sets against the caller's collateral.
func (h *Handler) BuyCompleteSets(c *gin.Context) {
	marketID, caller, req, ok := h.completeSetsContext(c)
	if !ok {
		return
	}

	result, err := h.service.BuyCompleteSets(c.Request.Context(), marketID, caller, req)
	if err != nil {
		h.handleServiceError(c, marketID, caller, err)
		return
	}

	api.SuccessResponse(c, 200, "Complete sets purchased successfully", result)
}

// SellCompleteSets redeems complete sets back into collateral.
func (h *Handler) SellCompleteSets(c *gin.Context) {
	marketID, caller, req, ok := h.completeSetsContext(c)
	if !ok {
		return
	}

	result, err := h.service.SellCompleteSets(c.Request.Context(), marketID, caller, req)
	if err != nil {
		h.handleServiceError(c, marketID, caller, err)
		return
	}

	api.SuccessResponse(c, 200, "Complete sets sold successfully", result)
}

// ClaimTradingProceeds redeems the caller's positions in a resolved market.
func (h *Handler) ClaimTradingProceeds(c *gin.Context) {
	marketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid market ID format")
		return
	}

	caller, found := api.AccountFrom(c)
	if !found {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return
	}

	result, err := h.service.ClaimTradingProceeds(c.Request.Context(), marketID, caller)
	if err != nil {
		h.handleServiceError(c, marketID, caller, err)
		return
	}

	api.SuccessResponse(c, 200, "Trading proceeds claimed successfully", result)
}

func (h *Handler) completeSetsContext(c *gin.Context) (marketID, caller uuid.UUID, req *CompleteSetsRequest, ok bool) {
	marketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid market ID format")
		return uuid.Nil, uuid.Nil, nil, false
	}

	caller, found := api.AccountFrom(c)
	if !found {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return uuid.Nil, uuid.Nil, nil, false
	}

	req = &CompleteSetsRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return uuid.Nil, uuid.Nil, nil, false
	}

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return uuid.Nil, uuid.Nil, nil, false
	}

	return marketID, caller, req, true
}

func (h *Handler) handleServiceError(c *gin.Context, marketID, caller uuid.UUID, err error) {
	switch {
	case models.IsIntegrityError(err):
		// References to records the ledger does not recognize are logged
		// with the caller attached; plain validation failures are not.
		h.logger.Error(err, logger.Fields{
			"component": "trading",
			"market_id": marketID.String(),
			"caller":    caller.String(),
		})
		api.BadRequestResponse(c, err.Error())
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Market")
	case errors.Is(err, models.ErrMarketNotTrading) || errors.Is(err, models.ErrNotFinalized):
		api.ConflictResponse(c, err.Error())
	case errors.Is(err, models.ErrNoSpendApproval):
		api.ForbiddenResponse(c, err.Error())
	case errors.Is(err, models.ErrInsufficientFunds) || errors.Is(err, models.ErrInsufficientShares),
		models.IsValidationError(err):
		api.BadRequestResponse(c, err.Error())
	default:
		api.InternalErrorResponse(c, "Operation failed")
	}
}
