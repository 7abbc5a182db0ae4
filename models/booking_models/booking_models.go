package booking_models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/utils"
)

// Booking statuses. A booking is created confirmed and moves to paid exactly
// once via the pay action; it is never deleted.
const (
	StatusConfirmed = "confirmed"
	StatusPaid      = "paid"
)

type GuestInfo struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

// Booking is a persisted reservation record.
type Booking struct {
	ID            uuid.UUID `json:"booking_id"`
	HotelID       string    `json:"hotel_id"`
	HotelName     string    `json:"hotel_name"`
	CheckIn       time.Time `json:"-"`
	CheckOut      time.Time `json:"-"`
	Travelers     int       `json:"travelers"`
	RoomType      string    `json:"room_type,omitempty"`
	GuestInfo     GuestInfo `json:"guest_info"`
	TotalPrice    float64   `json:"total_price"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type bookingAlias Booking

// bookingJSON adds the date-only rendering of the stay window.
type bookingJSON struct {
	*bookingAlias
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookingJSON{
		bookingAlias: (*bookingAlias)(&b),
		CheckIn:      b.CheckIn.Format("2006-01-02"),
		CheckOut:     b.CheckOut.Format("2006-01-02"),
	})
}

// Nights returns the length of the stay in nights, never below one.
func (b *Booking) Nights() int {
	nights := int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return nights
}

// Default nightly rate used when the upstream offer carried no price.
const defaultNightlyRate = 150.0

// NewBooking builds a confirmed booking with a fresh UUIDv7 id. A zero
// totalPrice falls back to the flat nightly rate per traveler.
func NewBooking(hotelID, hotelName, roomType string, checkIn, checkOut time.Time, travelers int, guest GuestInfo, totalPrice float64, currency string) (*Booking, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}

	now := time.Now()
	b := &Booking{
		ID:         id,
		HotelID:    hotelID,
		HotelName:  hotelName,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Travelers:  travelers,
		RoomType:   roomType,
		GuestInfo:  guest,
		TotalPrice: totalPrice,
		Currency:   currency,
		Status:     StatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if b.Currency == "" {
		b.Currency = "USD"
	}
	if b.TotalPrice <= 0 {
		b.TotalPrice = defaultNightlyRate * float64(b.Nights()) * float64(travelers)
	}
	return b, nil
}

// Store is the persistence contract for bookings. The pay transition is
// orchestrated by the controller: fetch, check status, then SetPaid.
type Store interface {
	Insert(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id uuid.UUID) (*Booking, error)
	SetPaid(ctx context.Context, id uuid.UUID, transactionID string) error
	List(ctx context.Context) ([]Booking, error)
}

// PGStore implements Store on the shared pgx pool.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

const bookingColumns = `id, hotel_id, hotel_name, check_in, check_out, travelers,
	COALESCE(room_type, ''), guest_first_name, guest_last_name, guest_email,
	COALESCE(guest_phone, ''), total_price, currency, status,
	COALESCE(transaction_id, ''), created_at, updated_at`

func (s *PGStore) Insert(ctx context.Context, b *Booking) error {
	logger.InfoLogger.Infof("Creating booking %s for hotel %s", b.ID, b.HotelID)

	query := `
		INSERT INTO bookings (
			id, hotel_id, hotel_name, check_in, check_out, travelers, room_type,
			guest_first_name, guest_last_name, guest_email, guest_phone,
			total_price, currency, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NULLIF($7, ''),
			$8, $9, $10, NULLIF($11, ''),
			$12, $13, $14, $15, $16
		)`

	_, err := s.DB.Exec(ctx, query,
		b.ID, b.HotelID, b.HotelName, b.CheckIn, b.CheckOut, b.Travelers, b.RoomType,
		b.GuestInfo.FirstName, b.GuestInfo.LastName, b.GuestInfo.Email, b.GuestInfo.Phone,
		b.TotalPrice, b.Currency, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking %s: %v", b.ID, err)
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)

	var b Booking
	err := row.Scan(
		&b.ID, &b.HotelID, &b.HotelName, &b.CheckIn, &b.CheckOut, &b.Travelers,
		&b.RoomType, &b.GuestInfo.FirstName, &b.GuestInfo.LastName, &b.GuestInfo.Email,
		&b.GuestInfo.Phone, &b.TotalPrice, &b.Currency, &b.Status,
		&b.TransactionID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", id, utils.ErrNotFound)
		}
		logger.ErrorLogger.Errorf("Failed to load booking %s: %v", id, err)
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return &b, nil
}

// SetPaid transitions a confirmed booking to paid. The status guard in the
// WHERE clause makes a concurrent double pay a no-op on the loser's side.
func (s *PGStore) SetPaid(ctx context.Context, id uuid.UUID, transactionID string) error {
	tag, err := s.DB.Exec(ctx, `
		UPDATE bookings
		SET status = $2, transaction_id = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		id, StatusPaid, transactionID, StatusConfirmed,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to mark booking %s paid: %v", id, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the booking is unknown or it was already paid; Get settles it.
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *PGStore) List(ctx context.Context) ([]Booking, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.HotelID, &b.HotelName, &b.CheckIn, &b.CheckOut, &b.Travelers,
			&b.RoomType, &b.GuestInfo.FirstName, &b.GuestInfo.LastName, &b.GuestInfo.Email,
			&b.GuestInfo.Phone, &b.TotalPrice, &b.Currency, &b.Status,
			&b.TransactionID, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
