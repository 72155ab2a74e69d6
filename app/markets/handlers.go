package markets

import (
	"errors"

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

// GetMarket returns a market with its share tokens.
func (h *Handler) GetMarket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid market ID format")
		return
	}

	market, err := h.service.GetMarket(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Market")
			return
		}
		api.InternalErrorResponse(c, "Failed to get market")
		return
	}

	api.SuccessResponse(c, 200, "Market retrieved successfully", market)
}

// Resolve accepts the designated oracle's report.
func (h *Handler) Resolve(c *gin.Context) {
	marketID, caller, ok := h.callerContext(c)
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	market, err := h.service.Resolve(c.Request.Context(), marketID, caller, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	api.SuccessResponse(c, 200, "Market resolved successfully", market)
}

// TransferOwnership hands the market to a new owner.
func (h *Handler) TransferOwnership(c *gin.Context) {
	marketID, caller, ok := h.callerContext(c)
	if !ok {
		return
	}

	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	market, err := h.service.TransferOwnership(c.Request.Context(), marketID, caller, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	api.SuccessResponse(c, 200, "Market ownership transferred successfully", market)
}

// TransferMailbox hands the market's fee mailbox to a new owner.
func (h *Handler) TransferMailbox(c *gin.Context) {
	marketID, caller, ok := h.callerContext(c)
	if !ok {
		return
	}

	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	mailbox, err := h.service.TransferMailbox(c.Request.Context(), marketID, caller, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	api.SuccessResponse(c, 200, "Mailbox ownership transferred successfully", mailbox)
}

// WithdrawMailbox sweeps accumulated fees to the mailbox owner.
func (h *Handler) WithdrawMailbox(c *gin.Context) {
	marketID, caller, ok := h.callerContext(c)
	if !ok {
		return
	}

	result, err := h.service.WithdrawMailbox(c.Request.Context(), marketID, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	api.SuccessResponse(c, 200, "Mailbox swept successfully", result)
}

// GetMailbox returns the market's fee mailbox.
func (h *Handler) GetMailbox(c *gin.Context) {
	marketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid market ID format")
		return
	}

	mailbox, err := h.service.GetMailbox(c.Request.Context(), marketID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Mailbox")
			return
		}
		api.InternalErrorResponse(c, "Failed to get mailbox")
		return
	}

	api.SuccessResponse(c, 200, "Mailbox retrieved successfully", mailbox)
}

func (h *Handler) callerContext(c *gin.Context) (marketID, caller uuid.UUID, ok bool) {
	marketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid market ID format")
		return uuid.Nil, uuid.Nil, false
	}

	caller, found := api.AccountFrom(c)
	if !found {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return uuid.Nil, uuid.Nil, false
	}
	return marketID, caller, true
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Market")
	case errors.Is(err, models.ErrUnauthorized):
		api.ForbiddenResponse(c, "Caller is not authorized for this operation")
	case errors.Is(err, models.ErrAlreadyResolved):
		api.ConflictResponse(c, err.Error())
	case errors.Is(err, models.ErrNotYetReportable) || models.IsValidationError(err):
		api.BadRequestResponse(c, err.Error())
	default:
		api.InternalErrorResponse(c, "Operation failed")
	}
}
