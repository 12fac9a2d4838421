package postgres

import (
	"context"
	"database/sql"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type WishlistRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) IsSaved(ctx context.Context, userID, carID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_saved_cars WHERE user_id = $1 AND car_id = $2)`

	var saved bool
	if err := r.db.QueryRowContext(ctx, query, userID, carID).Scan(&saved); err != nil {
		return false, err
	}
	return saved, nil
}

func (r *WishlistRepository) SaveCar(ctx context.Context, userID, carID uuid.UUID) error {
	query := `INSERT INTO user_saved_cars (user_id, car_id) VALUES ($1, $2)
		ON CONFLICT (user_id, car_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, userID, carID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return domain.ErrCarNotFound
		}
		return err
	}
	return nil
}

func (r *WishlistRepository) RemoveCar(ctx context.Context, userID, carID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_saved_cars WHERE user_id = $1 AND car_id = $2`, userID, carID)
	return err
}

func (r *WishlistRepository) GetSavedCarIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT car_id FROM user_saved_cars WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *WishlistRepository) GetSavedCars(ctx context.Context, userID uuid.UUID) ([]*domain.Car, error) {
	query := `SELECT ` + prefixedCarColumns("c") + `
		FROM user_saved_cars s
		JOIN cars c ON c.id = s.car_id
		WHERE s.user_id = $1
		ORDER BY s.saved_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
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
