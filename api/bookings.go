package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/krsingh2254/flightbooking/internal/domain"
	"github.com/krsingh2254/flightbooking/internal/service/booking"
)

type BookingHandler struct {
	service            booking.BookingUseCase
	producer           booking.Producer
	notificationsTopic string
}

// response is the envelope every endpoint answers with.
type response struct {
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Err     interface{} `json:"err"`
	Data    interface{} `json:"data"`
}

type flightView struct {
	FlightID       int64 `json:"flight_id"`
	PriceCents     int64 `json:"price"`
	TotalSeats     int   `json:"total_seats"`
	AvailableSeats int   `json:"available_seats"`
}

type bookingView struct {
	ID             int64       `json:"id"`
	Reference      string      `json:"reference"`
	FlightID       int64       `json:"flight_id"`
	UserID         string      `json:"user_id"`
	Seats          int         `json:"no_of_seats"`
	TotalCostCents int64       `json:"total_cost_cents"`
	Status         string      `json:"status"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
	Flight         *flightView `json:"flight,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase, producer booking.Producer, notificationsTopic string) *BookingHandler {
	return &BookingHandler{service: service, producer: producer, notificationsTopic: notificationsTopic}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/info", h.info)
	router.POST("/bookings", h.create)
	router.GET("/bookings/:id", h.get)
	router.POST("/publish", h.publish)
}

func (h *BookingHandler) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hitting Booking service"})
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{
			Message: "failed to complete booking",
			Success: false,
			Err:     "malformed request body",
			Data:    gin.H{},
		})
		return
	}

	confirmation, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForKind(domain.KindOf(err)), response{
			Message: "failed to complete booking",
			Success: false,
			Err:     domain.ExplanationOf(err),
			Data:    gin.H{},
		})
		return
	}

	view := toBookingView(&confirmation.Booking)
	view.Flight = &flightView{
		FlightID:       confirmation.Flight.FlightID,
		PriceCents:     confirmation.Flight.PriceCents,
		TotalSeats:     confirmation.Flight.TotalSeats,
		AvailableSeats: confirmation.Flight.AvailableSeats,
	}
	c.JSON(http.StatusOK, response{
		Message: "successfully completed booking",
		Success: true,
		Err:     gin.H{},
		Data:    view,
	})
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response{
			Message: "failed to fetch booking",
			Success: false,
			Err:     "invalid booking id",
			Data:    gin.H{},
		})
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForKind(domain.KindOf(err)), response{
			Message: "failed to fetch booking",
			Success: false,
			Err:     domain.ExplanationOf(err),
			Data:    gin.H{},
		})
		return
	}

	c.JSON(http.StatusOK, response{
		Message: "successfully fetched booking",
		Success: true,
		Err:     gin.H{},
		Data:    toBookingView(b),
	})
}

// publish emits a demo reminder payload to the notifications topic. Delivery
// is best-effort and unrelated to booking correctness.
func (h *BookingHandler) publish(c *gin.Context) {
	payload := gin.H{
		"data": gin.H{
			"subject":          "booking reminder",
			"content":          "your flight departs soon",
			"notificationTime": time.Now().Format(time.RFC3339),
		},
		"service": "CREATE_TICKET",
	}
	if err := h.producer.Publish(c.Request.Context(), h.notificationsTopic, "reminder", payload); err != nil {
		c.JSON(http.StatusInternalServerError, response{
			Message: "failed to publish the event",
			Success: false,
			Err:     "notification broker is unavailable",
			Data:    gin.H{},
		})
		return
	}
	c.JSON(http.StatusOK, response{
		Message: "successfully published the event",
		Success: true,
		Err:     gin.H{},
		Data:    gin.H{},
	})
}

func toBookingView(b *domain.Booking) *bookingView {
	return &bookingView{
		ID:             b.ID,
		Reference:      b.Reference,
		FlightID:       b.FlightID,
		UserID:         b.UserID,
		Seats:          b.Seats,
		TotalCostCents: b.TotalCostCents,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      b.UpdatedAt.Format(time.RFC3339),
	}
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientInventory, domain.KindFlightBusy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
