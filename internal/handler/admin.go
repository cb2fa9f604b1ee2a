package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
	"shuttle/internal/service"
)

// AdminHandler handles administrative record management: stops, shuttles,
// routes, balance adjustments and system-wide views.
type AdminHandler struct {
	routeRepo     repository.RouteRepository
	shuttleRepo   repository.ShuttleRepository
	riderRepo     repository.RiderRepository
	ledgerRepo    repository.LedgerRepository
	walletService *service.WalletService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	routeRepo repository.RouteRepository,
	shuttleRepo repository.ShuttleRepository,
	riderRepo repository.RiderRepository,
	ledgerRepo repository.LedgerRepository,
	walletService *service.WalletService,
) *AdminHandler {
	return &AdminHandler{
		routeRepo:     routeRepo,
		shuttleRepo:   shuttleRepo,
		riderRepo:     riderRepo,
		ledgerRepo:    ledgerRepo,
		walletService: walletService,
	}
}

// CreateStopRequest is the HTTP request body for creating a stop.
type CreateStopRequest struct {
	Name string `json:"name"`
}

// CreateStop handles POST /v1/admin/stops
func (h *AdminHandler) CreateStop(c *gin.Context) {
	var req CreateStopRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	stop := &domain.Stop{
		ID:   uuid.New().String(),
		Name: req.Name,
	}

	if err := h.routeRepo.CreateStop(c.Request.Context(), stop); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stop)
}

// ListStops handles GET /v1/admin/stops
func (h *AdminHandler) ListStops(c *gin.Context) {
	stops, err := h.routeRepo.GetAllStops(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, stops)
}

// CreateShuttleRequest is the HTTP request body for creating a shuttle.
type CreateShuttleRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// CreateShuttle handles POST /v1/admin/shuttles
func (h *AdminHandler) CreateShuttle(c *gin.Context) {
	var req CreateShuttleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}
	if req.Capacity <= 0 {
		req.Capacity = 20
	}

	shuttle := &domain.Shuttle{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Capacity: req.Capacity,
	}

	if err := h.shuttleRepo.Create(c.Request.Context(), shuttle); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, shuttle)
}

// ListShuttles handles GET /v1/admin/shuttles
func (h *AdminHandler) ListShuttles(c *gin.Context) {
	shuttles, err := h.shuttleRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, shuttles)
}

// CreateRouteRequest is the HTTP request body for creating a route.
type CreateRouteRequest struct {
	Name            string `json:"name"`
	BaseFareCents   int64  `json:"base_fare_cents"`
	PricePerKmCents int64  `json:"price_per_km_cents"`
}

// CreateRoute handles POST /v1/admin/routes
func (h *AdminHandler) CreateRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}
	if req.BaseFareCents < 0 || req.PricePerKmCents < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "fares must be non-negative"})
		return
	}

	route := &domain.Route{
		ID:              uuid.New().String(),
		Name:            req.Name,
		BaseFareCents:   req.BaseFareCents,
		PricePerKmCents: req.PricePerKmCents,
	}

	if err := h.routeRepo.CreateRoute(c.Request.Context(), route); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, route)
}

// ListRoutes handles GET /v1/admin/routes
func (h *AdminHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeRepo.GetAllRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, routes)
}

// AddRouteStopRequest is the HTTP request body for attaching a stop to a route.
type AddRouteStopRequest struct {
	StopID     string  `json:"stop_id"`
	StopOrder  int     `json:"stop_order"`
	DistanceKm float64 `json:"distance_km"`
}

// AddRouteStop handles POST /v1/admin/routes/:id/stops
func (h *AdminHandler) AddRouteStop(c *gin.Context) {
	routeID := c.Param("id")

	var req AddRouteStopRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StopID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "stop_id is required"})
		return
	}
	if req.StopOrder < 1 || req.DistanceKm < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "stop_order must be positive and distance_km non-negative"})
		return
	}

	// Reject unknown routes up front so the foreign key never fires.
	if _, err := h.routeRepo.GetRoute(c.Request.Context(), routeID); err != nil {
		respondError(c, err)
		return
	}

	rs := &domain.RouteStop{
		ID:         uuid.New().String(),
		RouteID:    routeID,
		StopID:     req.StopID,
		StopOrder:  req.StopOrder,
		DistanceKm: req.DistanceKm,
	}

	if err := h.routeRepo.AddRouteStop(c.Request.Context(), rs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rs)
}

// ListRouteStops handles GET /v1/admin/routes/:id/stops
func (h *AdminHandler) ListRouteStops(c *gin.Context) {
	routeID := c.Param("id")

	stops, err := h.routeRepo.GetRouteStops(c.Request.Context(), routeID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, stops)
}

// AdjustBalanceRequest is the HTTP request body for a manual adjustment.
type AdjustBalanceRequest struct {
	DeltaCents int64  `json:"delta_cents"`
	Reason     string `json:"reason"`
}

// AdjustBalance handles POST /v1/admin/riders/:id/adjust
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	riderID := c.Param("id")

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	balance, err := h.walletService.Adjust(c.Request.Context(), riderID, req.DeltaCents)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BalanceResponse{
		RiderID:      riderID,
		BalanceCents: balance,
	})
}

// ListRiders handles GET /v1/admin/riders
func (h *AdminHandler) ListRiders(c *gin.Context) {
	riders, err := h.riderRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RiderResponse, 0, len(riders))
	for _, r := range riders {
		response = append(response, RiderResponse{
			ID:           r.ID,
			Username:     r.Username,
			Email:        r.Email,
			Role:         string(r.Role),
			BalanceCents: r.BalanceCents,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// TransactionResponse is one entry in the system-wide transaction list.
type TransactionResponse struct {
	ID            string `json:"id"`
	RiderID       string `json:"rider_id"`
	AmountCents   int64  `json:"amount_cents"`
	Type          string `json:"type"`
	Timestamp     string `json:"timestamp"`
	RelatedTripID string `json:"related_trip_id,omitempty"`
}

// ListTransactions handles GET /v1/admin/transactions
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	entries, err := h.ledgerRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TransactionResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, TransactionResponse{
			ID:            e.ID,
			RiderID:       e.RiderID,
			AmountCents:   e.AmountCents,
			Type:          string(e.Type),
			Timestamp:     e.Timestamp.Format(time.RFC3339),
			RelatedTripID: e.RelatedTripID,
		})
	}

	respondJSON(c, http.StatusOK, response)
}
