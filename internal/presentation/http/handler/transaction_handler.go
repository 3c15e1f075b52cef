package handler

import (
	"time"

	"github.com/dukahub/dukapos-api/internal/application/service"
	"github.com/dukahub/dukapos-api/internal/domain/enum"
	"github.com/dukahub/dukapos-api/internal/domain/repository"
	"github.com/dukahub/dukapos-api/internal/presentation/http/dto/request"
	"github.com/dukahub/dukapos-api/internal/presentation/http/dto/response"
	"github.com/dukahub/dukapos-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles sale transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Create handles recording a sale. Terminals submit queued offline sales
// through this endpoint during sync; replays are detected by client_tx_id
// and answered with the stored transaction.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items := make([]service.TransactionItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		unitType := enum.UnitTypeRetail
		if item.UnitType != "" {
			parsed := enum.UnitType(item.UnitType)
			if !parsed.Valid() {
				response.BadRequest(c, "Invalid unit type: "+item.UnitType)
				return
			}
			unitType = parsed
		}
		items = append(items, service.TransactionItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitType:  unitType,
			UnitPrice: item.UnitPrice,
		})
	}

	receiptNumber := ""
	if req.ReceiptNumber != nil {
		receiptNumber = *req.ReceiptNumber
	}

	result, err := h.transactionService.CreateTransaction(c.Request.Context(), &service.CreateTransactionInput{
		UserID:        *userID,
		CustomerID:    req.CustomerID,
		ClientTxID:    req.ClientTxID,
		ReceiptNumber: receiptNumber,
		PaymentMethod: req.PaymentMethod,
		IsCredit:      req.IsCredit,
		Discount:      req.Discount,
		ServiceFee:    req.ServiceFee,
		DeliveryFee:   req.DeliveryFee,
		Notes:         req.Notes,
		CreatedAt:     req.CreatedAt,
		Items:         items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Replayed {
		c.Header("X-Replayed", "true")
		response.OK(c, "Transaction already recorded", result)
		return
	}

	response.Created(c, "Transaction recorded successfully", result)
}

// List handles listing transactions (supports both page-based and cursor-based pagination)
func (h *TransactionHandler) List(c *gin.Context) {
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c)
		return
	}

	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:        filter.Search,
		PaymentMethod: filter.PaymentMethod,
		IsCredit:      filter.IsCredit,
	}

	if filter.Status != "" {
		status := enum.TransactionStatus(filter.Status)
		params.Status = &status
	}
	if filter.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &start
		}
	}
	if filter.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			// Include the whole end day
			end = end.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &end
		}
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// listWithCursor handles listing transactions with cursor-based pagination
func (h *TransactionHandler) listWithCursor(c *gin.Context) {
	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &repository.TransactionCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		Search: filter.Search,
	}

	if filter.Status != "" {
		status := enum.TransactionStatus(filter.Status)
		params.Status = &status
	}

	result, err := h.transactionService.ListTransactionsWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Transactions retrieved successfully", result)
}

// Get handles getting a single transaction with its line items
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// GetByReceipt handles looking up a transaction by its receipt number
func (h *TransactionHandler) GetByReceipt(c *gin.Context) {
	receiptNumber := c.Param("number")
	if receiptNumber == "" {
		response.BadRequest(c, "Receipt number is required")
		return
	}

	transaction, err := h.transactionService.GetTransactionByReceipt(c.Request.Context(), receiptNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// Void handles voiding a completed transaction. Stock is returned and any
// credit charge is reversed.
func (h *TransactionHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactionService.VoidTransaction(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction voided successfully", nil)
}
