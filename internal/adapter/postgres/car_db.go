package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CarRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{db: db}
}

const carColumns = `id, make, model, year, price, mileage, color, fuel_type, transmission, body_type, seats, description, status, featured, images, created_at, updated_at`

func scanCar(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Car, error) {
	car := &domain.Car{}
	var seats sql.NullInt64
	err := row.Scan(
		&car.ID,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.Price,
		&car.Mileage,
		&car.Color,
		&car.FuelType,
		&car.Transmission,
		&car.BodyType,
		&seats,
		&car.Description,
		&car.Status,
		&car.Featured,
		pq.Array(&car.Images),
		&car.CreatedAt,
		&car.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if seats.Valid {
		v := int(seats.Int64)
		car.Seats = &v
	}
	return car, nil
}

func (r *CarRepository) CreateCar(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	query := `INSERT INTO cars (id, make, model, year, price, mileage, color, fuel_type, transmission, body_type, seats, description, status, featured, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		car.ID,
		car.Make,
		car.Model,
		car.Year,
		car.Price,
		car.Mileage,
		car.Color,
		car.FuelType,
		car.Transmission,
		car.BodyType,
		car.Seats,
		car.Description,
		car.Status,
		car.Featured,
		pq.Array(car.Images),
	).Scan(&car.CreatedAt, &car.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23502" {
			return nil, fmt.Errorf("required field is missing")
		}
		return nil, err
	}
	return car, nil
}

func (r *CarRepository) GetCarByID(ctx context.Context, carID uuid.UUID) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(r.db.QueryRowContext(ctx, query, carID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}

// ListCars builds the listing query from the optional filters. Only
// AVAILABLE inventory is visible through this path.
func (r *CarRepository) ListCars(ctx context.Context, f domain.CarFilters) ([]*domain.Car, int, error) {
	conditions := []string{"status = $1"}
	args := []interface{}{domain.CarAvailable}

	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := addArg("%" + f.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(make ILIKE %s OR model ILIKE %s OR description ILIKE %s)", p, p, p))
	}
	if f.Make != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(make) = LOWER(%s)", addArg(f.Make)))
	}
	if f.BodyType != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(body_type) = LOWER(%s)", addArg(f.BodyType)))
	}
	if f.FuelType != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(fuel_type) = LOWER(%s)", addArg(f.FuelType)))
	}
	if f.Transmission != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(transmission) = LOWER(%s)", addArg(f.Transmission)))
	}
	conditions = append(conditions, fmt.Sprintf("price >= %s", addArg(f.MinPrice)))
	if f.MaxPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("price <= %s", addArg(f.MaxPrice)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM cars WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	var orderBy string
	switch f.SortBy {
	case domain.SortPriceAsc:
		orderBy = "price ASC"
	case domain.SortPriceDesc:
		orderBy = "price DESC"
	default:
		orderBy = "created_at DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM cars WHERE %s ORDER BY %s LIMIT %s OFFSET %s",
		carColumns, where, orderBy, addArg(f.Limit), addArg((f.Page-1)*f.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []*domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, car)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

func (r *CarRepository) SearchCars(ctx context.Context, search string) ([]*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars`
	var args []interface{}
	if search != "" {
		query += ` WHERE make ILIKE $1 OR model ILIKE $1 OR color ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []*domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *CarRepository) GetFeaturedCars(ctx context.Context, limit int) ([]*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars
		WHERE featured = TRUE AND status = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, domain.CarAvailable, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []*domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *CarRepository) GetCarFacets(ctx context.Context) (*domain.CarFacets, error) {
	facets := &domain.CarFacets{}

	distinct := func(column string, dest *[]string) error {
		query := fmt.Sprintf("SELECT DISTINCT %s FROM cars WHERE status = $1 ORDER BY %s ASC", column, column)
		rows, err := r.db.QueryContext(ctx, query, domain.CarAvailable)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return err
			}
			*dest = append(*dest, v)
		}
		return rows.Err()
	}

	if err := distinct("make", &facets.Makes); err != nil {
		return nil, err
	}
	if err := distinct("body_type", &facets.BodyTypes); err != nil {
		return nil, err
	}
	if err := distinct("fuel_type", &facets.FuelTypes); err != nil {
		return nil, err
	}
	if err := distinct("transmission", &facets.Transmissions); err != nil {
		return nil, err
	}

	query := `SELECT COALESCE(MIN(price), 0), COALESCE(MAX(price), 100000) FROM cars WHERE status = $1`
	if err := r.db.QueryRowContext(ctx, query, domain.CarAvailable).Scan(&facets.PriceRange.Min, &facets.PriceRange.Max); err != nil {
		return nil, err
	}
	return facets, nil
}

func (r *CarRepository) UpdateCarStatus(ctx context.Context, carID uuid.UUID, status *domain.CarStatus, featured *bool) error {
	query := `UPDATE cars
		SET
			status = COALESCE($1, status),
			featured = COALESCE($2, featured),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`

	var statusArg interface{}
	if status != nil {
		statusArg = string(*status)
	}

	result, err := r.db.ExecContext(ctx, query, statusArg, featured, carID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) DeleteCar(ctx context.Context, carID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, carID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) CountCarsByStatus(ctx context.Context) (map[domain.CarStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM cars GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.CarStatus]int)
	for rows.Next() {
		var status domain.CarStatus
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
