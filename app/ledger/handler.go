package ledger

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joefazee/omen/app/api"
	"github.com/joefazee/omen/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Deposit credits the caller's collateral account.
func (h *Handler) Deposit(c *gin.Context) {
	caller, ok := api.AccountFrom(c)
	if !ok {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.Deposit(c.Request.Context(), caller, &req)
	if err != nil {
		if models.IsValidationError(err) {
			api.BadRequestResponse(c, err.Error())
			return
		}
		api.InternalErrorResponse(c, "Failed to deposit")
		return
	}

	api.SuccessResponse(c, 200, "Deposit completed successfully", result)
}

// Withdraw debits the caller's collateral account.
func (h *Handler) Withdraw(c *gin.Context) {
	caller, ok := api.AccountFrom(c)
	if !ok {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.Withdraw(c.Request.Context(), caller, &req)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			api.BadRequestResponse(c, "Insufficient balance")
			return
		}
		if models.IsValidationError(err) {
			api.BadRequestResponse(c, err.Error())
			return
		}
		api.InternalErrorResponse(c, "Failed to withdraw")
		return
	}

	api.SuccessResponse(c, 200, "Withdrawal completed successfully", result)
}

// Transfer moves collateral from the caller to another account.
func (h *Handler) Transfer(c *gin.Context) {
	caller, ok := api.AccountFrom(c)
	if !ok {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.Transfer(c.Request.Context(), caller, &req)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			api.BadRequestResponse(c, "Insufficient balance")
			return
		}
		if errors.Is(err, models.ErrZeroAddress) || models.IsValidationError(err) {
			api.BadRequestResponse(c, err.Error())
			return
		}
		api.InternalErrorResponse(c, "Failed to transfer")
		return
	}

	api.SuccessResponse(c, 200, "Transfer completed successfully", result)
}

// Approve grants a named spender unlimited access to the caller's account.
func (h *Handler) Approve(c *gin.Context) {
	caller, ok := api.AccountFrom(c)
	if !ok {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	if err := h.service.Approve(c.Request.Context(), caller, &req); err != nil {
		api.InternalErrorResponse(c, "Failed to create approval")
		return
	}

	api.SuccessResponse(c, 200, "Approval granted successfully", nil)
}

// GetBalance returns the caller's balance in the requested currency.
func (h *Handler) GetBalance(c *gin.Context) {
	caller, ok := api.AccountFrom(c)
	if !ok {
		api.ForbiddenResponse(c, "Caller account not resolved")
		return
	}

	currency := c.Param("currency")
	if currency == "" {
		api.BadRequestResponse(c, "Currency is required")
		return
	}

	account, err := h.service.BalanceOf(c.Request.Context(), caller, currency)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get balance")
		return
	}

	api.SuccessResponse(c, 200, "Balance retrieved successfully", account)
}

// GetTransactions returns the ledger history of an account.
func (h *Handler) GetTransactions(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid account ID format")
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

	transactions, err := h.service.GetAccountTransactions(c.Request.Context(), accountID, limit, offset)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to get account transactions")
		return
	}

	api.SuccessResponse(c, 200, "Account transactions retrieved successfully", transactions)
}
