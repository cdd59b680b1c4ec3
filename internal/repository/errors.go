package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrDoubleBooking means idx_no_double_booking rejected the insert: another
	// confirmed booking for the same taxi, route and day won the race.
	ErrDoubleBooking = errors.New("confirmed booking already exists for taxi, route and day")

	// ErrDuplicateCode means the generated booking code is already taken.
	ErrDuplicateCode = errors.New("booking code already exists")

	// ErrDuplicate is any other unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")

	// ErrStale means the row changed since it was read.
	ErrStale = errors.New("record was modified concurrently")
)

const pgUniqueViolation = "23505"

// uniqueViolation reports whether err is a unique constraint violation and, when
// the driver tells us, which constraint or columns were involved.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		return pgErr.ConstraintName + " " + pgErr.Detail, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return msg, true
	}
	return "", false
}

func classifyBookingInsert(err error) error {
	detail, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	switch {
	case strings.Contains(detail, "idx_no_double_booking"), strings.Contains(detail, "ride_day"):
		return ErrDoubleBooking
	case strings.Contains(detail, "idx_bookings_code"), strings.Contains(detail, "booking_code"):
		return ErrDuplicateCode
	}
	return ErrDuplicate
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
