package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *domain.TestDriveBooking) (*domain.TestDriveBooking, error) {
	query := `INSERT INTO test_drive_bookings (id, car_id, user_id, booking_date, start_time, end_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.ID,
		booking.CarID,
		booking.UserID,
		time.Time(booking.BookingDate),
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				// Active-booking unique index: the slot was taken by a
				// concurrent request.
				return nil, domain.ErrAlreadyBooked
			case "23503":
				return nil, domain.ErrCarNotFound
			}
		}
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*domain.TestDriveBooking, error) {
	query := `SELECT id, car_id, user_id, booking_date, start_time, end_time, status, notes, created_at, updated_at
		FROM test_drive_bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) HasActiveBooking(ctx context.Context, carID uuid.UUID, date strfmt.Date, startTime string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM test_drive_bookings
		WHERE car_id = $1 AND booking_date = $2 AND start_time = $3 AND status IN ($4, $5)
	)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		carID, time.Time(date), startTime, domain.BookingPending, domain.BookingConfirmed,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BookingRepository) GetCarBookingsForDate(ctx context.Context, carID uuid.UUID, date strfmt.Date) ([]*domain.TestDriveBooking, error) {
	query := `SELECT id, car_id, user_id, booking_date, start_time, end_time, status, notes, created_at, updated_at
		FROM test_drive_bookings
		WHERE car_id = $1 AND booking_date = $2 AND status != $3
		ORDER BY start_time ASC`

	rows, err := r.db.QueryContext(ctx, query, carID, time.Time(date), domain.BookingCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *BookingRepository) GetLatestUserBookingForCar(ctx context.Context, carID, userID uuid.UUID) (*domain.TestDriveBooking, error) {
	query := `SELECT id, car_id, user_id, booking_date, start_time, end_time, status, notes, created_at, updated_at
		FROM test_drive_bookings
		WHERE car_id = $1 AND user_id = $2 AND status IN ($3, $4, $5)
		ORDER BY booking_date DESC
		LIMIT 1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query,
		carID, userID, domain.BookingPending, domain.BookingConfirmed, domain.BookingCompleted))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetBookingsByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.TestDriveBooking, error) {
	query := `SELECT b.id, b.car_id, b.user_id, b.booking_date, b.start_time, b.end_time, b.status, b.notes, b.created_at, b.updated_at,
			` + prefixedCarColumns("c") + `
		FROM test_drive_bookings b
		JOIN cars c ON c.id = b.car_id
		WHERE b.user_id = $1
		ORDER BY b.booking_date DESC, b.start_time ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.TestDriveBooking
	for rows.Next() {
		booking, err := scanBookingWithCar(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListBookings is the admin view: every booking with its car and user,
// optionally narrowed by status or a free-text match on car or customer.
func (r *BookingRepository) ListBookings(ctx context.Context, status domain.BookingStatus, search string) ([]*domain.TestDriveBooking, error) {
	query := `SELECT b.id, b.car_id, b.user_id, b.booking_date, b.start_time, b.end_time, b.status, b.notes, b.created_at, b.updated_at,
			` + prefixedCarColumns("c") + `,
			u.id, u.external_id, u.email, u.name, u.role, u.created_at, u.updated_at
		FROM test_drive_bookings b
		JOIN cars c ON c.id = b.car_id
		JOIN users u ON u.id = b.user_id`

	var conditions []string
	var args []interface{}
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, "b.status = $1")
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		placeholder := "$" + strconv.Itoa(n)
		conditions = append(conditions, "(c.make ILIKE "+placeholder+" OR c.model ILIKE "+placeholder+" OR u.email ILIKE "+placeholder+" OR u.name ILIKE "+placeholder+")")
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY b.booking_date DESC, b.start_time ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.TestDriveBooking
	for rows.Next() {
		booking := &domain.TestDriveBooking{Car: &domain.Car{}, User: &domain.User{}}
		var bookingDate time.Time
		var seats sql.NullInt64
		err := rows.Scan(
			&booking.ID,
			&booking.CarID,
			&booking.UserID,
			&bookingDate,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Status,
			&booking.Notes,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&booking.Car.ID,
			&booking.Car.Make,
			&booking.Car.Model,
			&booking.Car.Year,
			&booking.Car.Price,
			&booking.Car.Mileage,
			&booking.Car.Color,
			&booking.Car.FuelType,
			&booking.Car.Transmission,
			&booking.Car.BodyType,
			&seats,
			&booking.Car.Description,
			&booking.Car.Status,
			&booking.Car.Featured,
			pq.Array(&booking.Car.Images),
			&booking.Car.CreatedAt,
			&booking.Car.UpdatedAt,
			&booking.User.ID,
			&booking.User.ExternalID,
			&booking.User.Email,
			&booking.User.Name,
			&booking.User.Role,
			&booking.User.CreatedAt,
			&booking.User.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		booking.BookingDate = strfmt.Date(bookingDate)
		if seats.Valid {
			v := int(seats.Int64)
			booking.Car.Seats = &v
		}
		bookings = append(bookings, booking)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) error {
	query := `UPDATE test_drive_bookings
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, bookingID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) CountBookingsByStatus(ctx context.Context) (map[domain.BookingStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM test_drive_bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int)
	for rows.Next() {
		var status domain.BookingStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (*domain.TestDriveBooking, error) {
	booking := &domain.TestDriveBooking{}
	var bookingDate time.Time
	err := row.Scan(
		&booking.ID,
		&booking.CarID,
		&booking.UserID,
		&bookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	booking.BookingDate = strfmt.Date(bookingDate)
	return booking, nil
}

func scanBookingWithCar(rows *sql.Rows) (*domain.TestDriveBooking, error) {
	booking := &domain.TestDriveBooking{Car: &domain.Car{}}
	var bookingDate time.Time
	var seats sql.NullInt64
	err := rows.Scan(
		&booking.ID,
		&booking.CarID,
		&booking.UserID,
		&bookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.Car.ID,
		&booking.Car.Make,
		&booking.Car.Model,
		&booking.Car.Year,
		&booking.Car.Price,
		&booking.Car.Mileage,
		&booking.Car.Color,
		&booking.Car.FuelType,
		&booking.Car.Transmission,
		&booking.Car.BodyType,
		&seats,
		&booking.Car.Description,
		&booking.Car.Status,
		&booking.Car.Featured,
		pq.Array(&booking.Car.Images),
		&booking.Car.CreatedAt,
		&booking.Car.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	booking.BookingDate = strfmt.Date(bookingDate)
	if seats.Valid {
		v := int(seats.Int64)
		booking.Car.Seats = &v
	}
	return booking, nil
}

func collectBookings(rows *sql.Rows) ([]*domain.TestDriveBooking, error) {
	var bookings []*domain.TestDriveBooking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func prefixedCarColumns(alias string) string {
	return alias + `.id, ` + alias + `.make, ` + alias + `.model, ` + alias + `.year, ` + alias + `.price, ` +
		alias + `.mileage, ` + alias + `.color, ` + alias + `.fuel_type, ` + alias + `.transmission, ` +
		alias + `.body_type, ` + alias + `.seats, ` + alias + `.description, ` + alias + `.status, ` +
		alias + `.featured, ` + alias + `.images, ` + alias + `.created_at, ` + alias + `.updated_at`
}

