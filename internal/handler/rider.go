package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shuttle/internal/service"
)

// RiderHandler handles HTTP requests for rider accounts and wallets.
type RiderHandler struct {
	accountService *service.AccountService
	walletService  *service.WalletService
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(accountService *service.AccountService, walletService *service.WalletService) *RiderHandler {
	return &RiderHandler{
		accountService: accountService,
		walletService:  walletService,
	}
}

// RegisterRequest is the HTTP request body for rider registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RiderResponse is the HTTP response for rider data.
type RiderResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	BalanceCents int64  `json:"balance_cents"`
}

// Register handles POST /v1/riders/register
func (h *RiderHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rider, err := h.accountService.Register(c.Request.Context(), service.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RiderResponse{
		ID:           rider.ID,
		Username:     rider.Username,
		Email:        rider.Email,
		Role:         string(rider.Role),
		BalanceCents: rider.BalanceCents,
	})
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /v1/riders/login
func (h *RiderHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rider, err := h.accountService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, RiderResponse{
		ID:           rider.ID,
		Username:     rider.Username,
		Email:        rider.Email,
		Role:         string(rider.Role),
		BalanceCents: rider.BalanceCents,
	})
}

// BalanceResponse is the HTTP response for a balance read.
type BalanceResponse struct {
	RiderID      string `json:"rider_id"`
	BalanceCents int64  `json:"balance_cents"`
}

// GetBalance handles GET /v1/riders/:id/balance
func (h *RiderHandler) GetBalance(c *gin.Context) {
	riderID := c.Param("id")

	balance, err := h.walletService.Balance(c.Request.Context(), riderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BalanceResponse{
		RiderID:      riderID,
		BalanceCents: balance,
	})
}

// AddFundsRequest is the HTTP request body for a wallet top-up.
type AddFundsRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

// AddFunds handles POST /v1/riders/:id/funds
func (h *RiderHandler) AddFunds(c *gin.Context) {
	riderID := c.Param("id")

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	balance, err := h.walletService.AddFunds(c.Request.Context(), riderID, req.AmountCents)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BalanceResponse{
		RiderID:      riderID,
		BalanceCents: balance,
	})
}

// LedgerEntryResponse is one ledger entry in a history response.
type LedgerEntryResponse struct {
	ID            string `json:"id"`
	AmountCents   int64  `json:"amount_cents"`
	Type          string `json:"type"`
	Timestamp     string `json:"timestamp"`
	RelatedTripID string `json:"related_trip_id,omitempty"`
}

// GetHistory handles GET /v1/riders/:id/history
func (h *RiderHandler) GetHistory(c *gin.Context) {
	riderID := c.Param("id")

	entries, err := h.walletService.RideHistory(c.Request.Context(), riderID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, LedgerEntryResponse{
			ID:            e.ID,
			AmountCents:   e.AmountCents,
			Type:          string(e.Type),
			Timestamp:     e.Timestamp.Format(time.RFC3339),
			RelatedTripID: e.RelatedTripID,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// ReconcileResponse is the HTTP response for a ledger reconciliation.
type ReconcileResponse struct {
	RiderID        string `json:"rider_id"`
	BalanceCents   int64  `json:"balance_cents"`
	LedgerSumCents int64  `json:"ledger_sum_cents"`
	Consistent     bool   `json:"consistent"`
}

// Reconcile handles GET /v1/riders/:id/reconcile
func (h *RiderHandler) Reconcile(c *gin.Context) {
	riderID := c.Param("id")

	result, err := h.walletService.Reconcile(c.Request.Context(), riderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ReconcileResponse{
		RiderID:        result.RiderID,
		BalanceCents:   result.BalanceCents,
		LedgerSumCents: result.LedgerSumCents,
		Consistent:     result.Consistent,
	})
}
