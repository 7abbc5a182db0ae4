package booking_controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rountana/page1/config"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/models/booking_models"
	"github.com/rountana/page1/models/hotel_models"
	"github.com/rountana/page1/utils"
	"github.com/rountana/page1/utils/mail"
)

const (
	hotelNameKeyPrefix = "hotel_name:"
	hotelNameTTL       = 24 * time.Hour
)

// HotelDirectory resolves hotel names for booking records. Satisfied by
// *amadeus.Client.
type HotelDirectory interface {
	GetHotelDetails(ctx context.Context, hotelID string, checkIn, checkOut time.Time, adults int) (*hotel_models.HotelDetails, error)
}

// BookingController serves the booking lifecycle: create, fetch, pay, list.
type BookingController struct {
	Store  booking_models.Store
	Hotels HotelDirectory
	Cfg    *config.Config
	RDB    *redis.Client
}

func NewBookingController(store booking_models.Store, hotels HotelDirectory, cfg *config.Config, rdb *redis.Client) *BookingController {
	return &BookingController{Store: store, Hotels: hotels, Cfg: cfg, RDB: rdb}
}

type CreateBookingRequest struct {
	HotelID    string                   `json:"hotel_id" binding:"required"`
	HotelName  string                   `json:"hotel_name"`
	CheckIn    string                   `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string                   `json:"check_out" binding:"required,datetime=2006-01-02"`
	Travelers  int                      `json:"travelers" binding:"required,gt=0"`
	RoomType   string                   `json:"room_type"`
	GuestInfo  booking_models.GuestInfo `json:"guest_info" binding:"required"`
	TotalPrice float64                  `json:"total_price"`
	Currency   string                   `json:"currency"`
}

type PaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// CreateBooking handles POST /api/bookings. The booking is stored with status
// confirmed; payment is a separate step.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking request: " + err.Error()})
		return
	}

	checkIn, _ := time.Parse("2006-01-02", req.CheckIn)
	checkOut, _ := time.Parse("2006-01-02", req.CheckOut)
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be after check_in"})
		return
	}
	if checkIn.Before(utils.Today()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must not be in the past"})
		return
	}

	ctx := c.Request.Context()
	hotelName := req.HotelName
	if hotelName == "" {
		hotelName = bc.resolveHotelName(ctx, req.HotelID, checkIn, checkOut, req.Travelers)
	}

	booking, err := booking_models.NewBooking(
		req.HotelID, hotelName, req.RoomType,
		checkIn, checkOut, req.Travelers,
		req.GuestInfo, req.TotalPrice, req.Currency,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to build booking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	if err := bc.Store.Insert(ctx, booking); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}
	logger.InfoLogger.Infof("Booking %s created for hotel %s (%s)", booking.ID, booking.HotelID, booking.HotelName)

	// Confirmation mail is best-effort and must not delay the response.
	go func(b booking_models.Booking) {
		mail.SendBookingConfirmation(bc.Cfg, &b)
	}(*booking)

	c.JSON(http.StatusOK, booking)
}

// resolveHotelName looks the name up in redis first, then asks the hotel
// directory, then gives up with a placeholder. A booking is never rejected
// because the name could not be resolved.
func (bc *BookingController) resolveHotelName(ctx context.Context, hotelID string, checkIn, checkOut time.Time, travelers int) string {
	if bc.RDB != nil {
		if name, err := bc.RDB.Get(ctx, hotelNameKeyPrefix+hotelID).Result(); err == nil && name != "" {
			return name
		}
	}
	if bc.Hotels != nil {
		if details, err := bc.Hotels.GetHotelDetails(ctx, hotelID, checkIn, checkOut, travelers); err == nil && details.Name != "" {
			if bc.RDB != nil {
				if err := bc.RDB.Set(ctx, hotelNameKeyPrefix+hotelID, details.Name, hotelNameTTL).Err(); err != nil {
					logger.WarnLogger.Warnf("Failed to cache hotel name for %s: %v", hotelID, err)
				}
			}
			return details.Name
		}
	}
	return "Unknown Hotel"
}

// GetBooking handles GET /api/bookings/:booking_id.
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := bc.Store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// PayBooking handles POST /api/bookings/:booking_id/pay. Payment is
// simulated: a transaction id is generated locally and the booking moves to
// paid. Paying twice returns the original transaction instead of failing.
func (bc *BookingController) PayBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment request: " + err.Error()})
		return
	}
	if req.BookingID != id.String() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking id mismatch"})
		return
	}

	ctx := c.Request.Context()
	booking, err := bc.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking"})
		return
	}

	if booking.Status == booking_models.StatusPaid {
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        "Payment already processed",
			"booking_id":     booking.ID,
			"transaction_id": booking.TransactionID,
		})
		return
	}

	transactionID := newTransactionID()
	if err := bc.Store.SetPaid(ctx, id, transactionID); err != nil {
		logger.ErrorLogger.Errorf("Payment failed for booking %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process payment"})
		return
	}

	// Re-read instead of trusting our transaction id: a concurrent pay may
	// have won the status-guarded update, and only the stored id is real.
	paid, err := bc.Store.Get(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking"})
		return
	}
	message := "Payment successful! Your booking is confirmed."
	if paid.TransactionID != transactionID {
		message = "Payment already processed"
	}
	logger.InfoLogger.Infof("Booking %s paid, transaction %s", id, paid.TransactionID)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        message,
		"booking_id":     paid.ID,
		"transaction_id": paid.TransactionID,
	})
}

// ListBookings handles GET /api/admin/bookings.
func (bc *BookingController) ListBookings(c *gin.Context) {
	bookings, err := bc.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	if bookings == nil {
		bookings = []booking_models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "total": len(bookings)})
}

func newTransactionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("TXN-%s", strings.ToUpper(hex[:12]))
}
