package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"busline/internal/booking"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"

	"github.com/google/uuid"
)

// Payment is simulated: no money moves. These values are the whole policy.
const (
	DefaultPaymentDelay = 2 * time.Second
	PaymentRedirect     = "/profile"
	simulatedIntentID   = "pi_demo_payment"
)

var PaymentMethods = []string{"card", "upi", "wallet"}

type ConfirmInput struct {
	Method string `json:"payment_method" validate:"omitempty,oneof=card upi wallet"`
}

// Confirmation is returned after the simulated charge succeeds.
type Confirmation struct {
	Reference       string        `json:"booking_reference"`
	PaymentIntentID string        `json:"payment_intent_id"`
	Method          string        `json:"payment_method"`
	Quote           booking.Quote `json:"quote"`
	Redirect        string        `json:"redirect"`
	Simulated       bool          `json:"simulated"`
}

type PaymentService struct {
	History   repositories.BookingHistoryRepository
	Events    EventPublisher
	Delay     time.Duration
	TaxRate   float64
	Now       func() time.Time
	RequestID string
}

func (s PaymentService) rate() float64 {
	if s.TaxRate > 0 {
		return s.TaxRate
	}
	return booking.DefaultTaxRate
}

func (s PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Quote prices the draft as it stands.
func (s PaymentService) Quote(w *booking.Wizard) booking.Quote {
	return booking.NewQuote(w.Draft().TotalAmount, s.rate())
}

// Confirm runs the simulated charge for a draft sitting at the payment step.
// The draft is frozen for the whole call. On success the booking is recorded,
// an event is emitted and the draft is reset. On any failure the draft is
// left untouched.
func (s PaymentService) Confirm(ctx context.Context, userID string, w *booking.Wizard, in ConfirmInput) (Confirmation, error) {
	in.Method = strings.ToLower(strings.TrimSpace(in.Method))
	if in.Method == "" {
		in.Method = PaymentMethods[0]
	}
	if err := validateInput(in); err != nil {
		return Confirmation{}, err
	}
	d, err := w.BeginPayment()
	if err != nil {
		return Confirmation{}, err
	}
	paid := false
	defer func() { w.EndPayment(paid) }()
	quote := booking.NewQuote(d.TotalAmount, s.rate())

	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			utils.LogEvent(s.RequestID, "payment", "confirm", "cancelled: "+ctx.Err().Error())
			return Confirmation{}, ctx.Err()
		case <-t.C:
		}
	}

	summary := s.summarize(userID, d, quote, in.Method)
	if err := s.History.Insert(ctx, summary); err != nil {
		utils.LogEvent(s.RequestID, "payment", "confirm", "history insert failed: "+err.Error())
		return Confirmation{}, domain.InternalError{Msg: "gagal menyimpan booking", Err: err}
	}
	paid = true

	if s.Events != nil {
		ev := BookingEvent{
			Type:        EventBookingConfirmed,
			Reference:   summary.Reference,
			UserID:      userID,
			TripID:      summary.TripID,
			Seats:       summary.Seats,
			FinalAmount: summary.FinalAmount,
			OccurredAt:  summary.CreatedAt,
		}
		if err := s.Events.Publish(ctx, ev); err != nil {
			utils.LogEvent(s.RequestID, "payment", "publish", "warning: "+err.Error())
		}
	}

	utils.LogEvent(s.RequestID, "payment", "confirm", fmt.Sprintf("ref=%s final=%d", summary.Reference, quote.FinalAmount))
	return Confirmation{
		Reference:       summary.Reference,
		PaymentIntentID: simulatedIntentID,
		Method:          in.Method,
		Quote:           quote,
		Redirect:        PaymentRedirect,
		Simulated:       true,
	}, nil
}

func (s PaymentService) summarize(userID string, d booking.Draft, q booking.Quote, method string) models.BookingSummary {
	out := models.BookingSummary{
		Reference:     NewBookingReference(),
		UserID:        userID,
		Origin:        d.Search.OriginCity,
		Destination:   d.Search.DestinationCity,
		TravelDate:    d.Search.TravelDate,
		Seats:         d.SelectedSeats,
		Passengers:    d.Passengers,
		PickupPoint:   d.PickupPoint,
		DropPoint:     d.DropPoint,
		TotalAmount:   q.Subtotal,
		TaxAmount:     q.TaxAmount,
		FinalAmount:   q.FinalAmount,
		PaymentMethod: method,
		BookingStatus: models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPaid,
		CreatedAt:     s.now(),
	}
	if d.Trip != nil {
		out.TripID = d.Trip.ID
		out.OperatorName = d.Trip.OperatorName
		out.BusCategory = d.Trip.BusCategory
		out.DepartureTime = d.Trip.DepartureTime
		out.ArrivalTime = d.Trip.ArrivalTime
	}
	return out
}

// NewBookingReference returns "BT" followed by ten digits.
func NewBookingReference() string {
	id := uuid.New()
	n := binary.BigEndian.Uint64(id[:8]) % 1e10
	return fmt.Sprintf("BT%010d", n)
}

// BookingHistoryService lists and renders past bookings of one user.
type BookingHistoryService struct {
	History   repositories.BookingHistoryRepository
	RequestID string
}

func (s BookingHistoryService) List(ctx context.Context, userID string) ([]models.BookingSummary, error) {
	list, err := s.History.ListByUser(ctx, userID)
	if err != nil {
		utils.LogEvent(s.RequestID, "bookings", "list", "query failed: "+err.Error())
		return nil, domain.InternalError{Msg: "gagal memuat riwayat booking", Err: err}
	}
	return list, nil
}

func (s BookingHistoryService) Get(ctx context.Context, userID, ref string) (models.BookingSummary, error) {
	b, err := s.History.GetByReference(ctx, userID, ref)
	if err != nil && !domain.IsNotFound(err) {
		return b, domain.InternalError{Msg: "gagal memuat booking", Err: err}
	}
	return b, err
}
