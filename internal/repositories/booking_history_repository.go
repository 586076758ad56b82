package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	intconfig "busline/internal/config"
	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/utils"
)

const bookingHistoryDDL = `
CREATE TABLE IF NOT EXISTS booking_history (
	reference VARCHAR(32) NOT NULL PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	trip_id VARCHAR(64) NOT NULL,
	operator_name VARCHAR(255) NOT NULL DEFAULT '',
	bus_category VARCHAR(64) NOT NULL DEFAULT '',
	origin VARCHAR(255) NOT NULL DEFAULT '',
	destination VARCHAR(255) NOT NULL DEFAULT '',
	travel_date VARCHAR(10) NOT NULL DEFAULT '',
	departure_time VARCHAR(8) NOT NULL DEFAULT '',
	arrival_time VARCHAR(8) NOT NULL DEFAULT '',
	seats VARCHAR(255) NOT NULL,
	passengers JSON NOT NULL,
	pickup_point VARCHAR(255) NOT NULL,
	drop_point VARCHAR(255) NOT NULL,
	total_amount BIGINT NOT NULL,
	tax_amount BIGINT NOT NULL,
	final_amount BIGINT NOT NULL,
	payment_method VARCHAR(16) NOT NULL DEFAULT '',
	booking_status VARCHAR(16) NOT NULL,
	payment_status VARCHAR(16) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_user (user_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

const historyColumns = `reference, user_id, trip_id, operator_name, bus_category, origin, destination, travel_date,
	departure_time, arrival_time, seats, passengers, pickup_point, drop_point,
	total_amount, tax_amount, final_amount, payment_method, booking_status, payment_status, created_at`

// BookingHistoryRepository keeps the past-booking list shown on the profile.
type BookingHistoryRepository struct {
	DB *sql.DB
}

func (r BookingHistoryRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureSchema creates booking_history, or adds payment_method to a table
// created before that column existed.
func (r BookingHistoryRepository) EnsureSchema(ctx context.Context) error {
	db := r.db()
	if intdb.HasTable(ctx, db, "booking_history") {
		if intdb.HasColumn(ctx, db, "booking_history", "payment_method") {
			return nil
		}
		_, err := db.ExecContext(ctx, `ALTER TABLE booking_history ADD COLUMN payment_method VARCHAR(16) NOT NULL DEFAULT '' AFTER final_amount`)
		return err
	}
	_, err := db.ExecContext(ctx, bookingHistoryDDL)
	return err
}

func (r BookingHistoryRepository) Insert(ctx context.Context, b models.BookingSummary) error {
	passengers, err := json.Marshal(b.Passengers)
	if err != nil {
		return err
	}
	_, err = r.db().ExecContext(ctx, `INSERT INTO booking_history (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.UserID, b.TripID, b.OperatorName, b.BusCategory, b.Origin, b.Destination, b.TravelDate,
		b.DepartureTime, b.ArrivalTime, strings.Join(b.Seats, ","), string(passengers), b.PickupPoint, b.DropPoint,
		b.TotalAmount, b.TaxAmount, b.FinalAmount, b.PaymentMethod, b.BookingStatus, b.PaymentStatus, b.CreatedAt,
	)
	return err
}

// ListByUser returns the newest bookings first.
func (r BookingHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.BookingSummary, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT `+historyColumns+` FROM booking_history WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingSummary{}
	for rows.Next() {
		b, err := scanSummary(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingHistoryRepository) GetByReference(ctx context.Context, userID, reference string) (models.BookingSummary, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+historyColumns+` FROM booking_history WHERE user_id = ? AND reference = ? LIMIT 1`,
		userID, strings.ToUpper(strings.TrimSpace(reference)))
	b, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BookingSummary{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(s scanner) (models.BookingSummary, error) {
	var (
		b          models.BookingSummary
		seats      string
		passengers []byte
	)
	err := s.Scan(
		&b.Reference, &b.UserID, &b.TripID, &b.OperatorName, &b.BusCategory, &b.Origin, &b.Destination, &b.TravelDate,
		&b.DepartureTime, &b.ArrivalTime, &seats, &passengers, &b.PickupPoint, &b.DropPoint,
		&b.TotalAmount, &b.TaxAmount, &b.FinalAmount, &b.PaymentMethod, &b.BookingStatus, &b.PaymentStatus, &b.CreatedAt,
	)
	if err != nil {
		return models.BookingSummary{}, err
	}
	b.Seats = utils.SplitSeatList(seats)
	b.Passengers = []models.PassengerRecord{}
	if len(passengers) > 0 {
		if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
			return models.BookingSummary{}, err
		}
	}
	return b, nil
}
