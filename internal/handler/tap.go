package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shuttle/internal/domain"
	"shuttle/internal/service"
)

// TapHandler handles HTTP requests for tap events and shift settlement.
type TapHandler struct {
	settlementService *service.SettlementService
	shiftService      *service.ShiftService
}

// NewTapHandler creates a new TapHandler.
func NewTapHandler(settlementService *service.SettlementService, shiftService *service.ShiftService) *TapHandler {
	return &TapHandler{
		settlementService: settlementService,
		shiftService:      shiftService,
	}
}

// TapEventRequest is the HTTP request body for a tap event.
type TapEventRequest struct {
	RiderID     string `json:"rider_id"`
	RouteStopID string `json:"route_stop_id"`
	ShuttleID   string `json:"shuttle_id"`
}

// TripInfo contains trip details in a response.
type TripInfo struct {
	TripID           string `json:"trip_id"`
	RiderID          string `json:"rider_id"`
	ShuttleID        string `json:"shuttle_id"`
	TapOnRouteStopID string `json:"tap_on_route_stop_id"`
	TapOnTime        string `json:"tap_on_time"`
	Status           string `json:"status"`
}

// TapResponse is the HTTP response for a tap event.
type TapResponse struct {
	Outcome         string    `json:"outcome"`
	FareCents       int64     `json:"fare_cents,omitempty"`
	ForcedFareCents int64     `json:"forced_fare_cents,omitempty"`
	BalanceCents    int64     `json:"balance_cents"`
	Trip            *TripInfo `json:"trip,omitempty"`
	ForcedTrip      *TripInfo `json:"forced_trip,omitempty"`
}

// Tap handles POST /v1/taps
func (h *TapHandler) Tap(c *gin.Context) {
	var req TapEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.settlementService.HandleTap(c.Request.Context(), service.TapRequest{
		RiderID:     req.RiderID,
		RouteStopID: req.RouteStopID,
		ShuttleID:   req.ShuttleID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TapResponse{
		Outcome:         string(result.Outcome),
		FareCents:       result.FareCents,
		ForcedFareCents: result.ForcedFareCents,
		BalanceCents:    result.BalanceCents,
		Trip:            tripInfo(result.Trip),
		ForcedTrip:      tripInfo(result.ForcedTrip),
	})
}

// TripSettlementInfo is the per-trip result in an end-shift response.
type TripSettlementInfo struct {
	TripID    string `json:"trip_id"`
	RiderID   string `json:"rider_id"`
	FareCents int64  `json:"fare_cents"`
	Error     string `json:"error,omitempty"`
}

// EndShiftResponse is the HTTP response for an end-of-shift settlement.
type EndShiftResponse struct {
	ShuttleID   string               `json:"shuttle_id"`
	Settlements []TripSettlementInfo `json:"settlements"`
}

// EndShift handles POST /v1/shuttles/:id/end-shift
func (h *TapHandler) EndShift(c *gin.Context) {
	shuttleID := c.Param("id")

	results, err := h.shiftService.EndShift(c.Request.Context(), shuttleID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := EndShiftResponse{
		ShuttleID:   shuttleID,
		Settlements: make([]TripSettlementInfo, 0, len(results)),
	}
	for _, r := range results {
		info := TripSettlementInfo{
			TripID:    r.TripID,
			RiderID:   r.RiderID,
			FareCents: r.FareCents,
		}
		if r.Err != nil {
			info.Error = r.Err.Error()
		}
		response.Settlements = append(response.Settlements, info)
	}

	respondJSON(c, http.StatusOK, response)
}

func tripInfo(trip *domain.Trip) *TripInfo {
	if trip == nil {
		return nil
	}
	return &TripInfo{
		TripID:           trip.ID,
		RiderID:          trip.RiderID,
		ShuttleID:        trip.ShuttleID,
		TapOnRouteStopID: trip.TapOnRouteStopID,
		TapOnTime:        trip.TapOnTime.Format(time.RFC3339),
		Status:           string(trip.Status),
	}
}
