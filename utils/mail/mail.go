package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/rountana/page1/config"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/models/booking_models"
	"github.com/rountana/page1/utils"
	gomail "gopkg.in/gomail.v2"
)

var templates *template.Template

// InitTemplates parses the embedded email templates once at startup.
func InitTemplates(fs embed.FS) {
	var err error
	templates, err = template.ParseFS(fs, "templates/email/*.html")
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse email templates: %v", err)
		templates = nil
	}
}

type confirmationData struct {
	GuestName  string
	HotelName  string
	CheckIn    string
	CheckOut   string
	Nights     int
	Travelers  int
	RoomType   string
	TotalPrice string
	Currency   string
	BookingID  string
}

// SendBookingConfirmation emails the guest after a booking is created. It is
// strictly best-effort: without SMTP settings it reports skipped; any send
// failure is logged and reported, never returned.
func SendBookingConfirmation(cfg *config.Config, b *booking_models.Booking) utils.Enrichment {
	if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.FromEmail == "" {
		return utils.EnrichmentDone("booking-confirmation-email", utils.EnrichmentSkipped, "smtp not configured")
	}
	if templates == nil {
		return utils.EnrichmentDone("booking-confirmation-email", utils.EnrichmentError, "email templates not initialized")
	}

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		return utils.EnrichmentDone("booking-confirmation-email", utils.EnrichmentError, fmt.Sprintf("invalid SMTP port: %v", err))
	}

	data := confirmationData{
		GuestName:  b.GuestInfo.FirstName + " " + b.GuestInfo.LastName,
		HotelName:  b.HotelName,
		CheckIn:    b.CheckIn.Format("2006-01-02"),
		CheckOut:   b.CheckOut.Format("2006-01-02"),
		Nights:     b.Nights(),
		Travelers:  b.Travelers,
		RoomType:   b.RoomType,
		TotalPrice: fmt.Sprintf("%.2f", b.TotalPrice),
		Currency:   b.Currency,
		BookingID:  b.ID.String(),
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "booking_confirmation.html", data); err != nil {
		return utils.EnrichmentDone("booking-confirmation-email", utils.EnrichmentError, fmt.Sprintf("template: %v", err))
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.FromEmail)
	msg.SetHeader("To", b.GuestInfo.Email)
	msg.SetHeader("Subject", "Your booking at "+b.HotelName+" is confirmed")
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword)
	dialer.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}

	if err := dialer.DialAndSend(msg); err != nil {
		return utils.EnrichmentDone("booking-confirmation-email", utils.EnrichmentError, fmt.Sprintf("send: %v", err))
	}

	logger.InfoLogger.Infof("Booking confirmation sent to %s for booking %s", b.GuestInfo.Email, b.ID)
	return utils.EnrichmentDone("booking-confirmation-email", utils.EnrichmentOK, "")
}
