package postgres

import (
	"context"
	"database/sql"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/google/uuid"
)

type DealershipRepository struct {
	db *sql.DB
}

func NewDealershipRepository(db *sql.DB) *DealershipRepository {
	return &DealershipRepository{db: db}
}

func (r *DealershipRepository) GetDealership(ctx context.Context) (*domain.DealershipInfo, error) {
	query := `SELECT id, name, address, phone, email, created_at, updated_at
		FROM dealership_info
		ORDER BY created_at ASC
		LIMIT 1`

	info := &domain.DealershipInfo{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&info.ID,
		&info.Name,
		&info.Address,
		&info.Phone,
		&info.Email,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrDealershipNotFound
	}
	if err != nil {
		return nil, err
	}

	hours, err := r.getWorkingHours(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	info.WorkingHours = hours
	return info, nil
}

func (r *DealershipRepository) CreateDealership(ctx context.Context, info *domain.DealershipInfo) (*domain.DealershipInfo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `INSERT INTO dealership_info (id, name, address, phone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		info.ID, info.Name, info.Address, info.Phone, info.Email,
	).Scan(&info.CreatedAt, &info.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err = insertWorkingHours(ctx, tx, info.ID, info.WorkingHours); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return info, nil
}

func (r *DealershipRepository) ReplaceWorkingHours(ctx context.Context, dealershipID uuid.UUID, hours []domain.WorkingHour) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM working_hours WHERE dealership_id = $1`, dealershipID); err != nil {
		return err
	}
	if err = insertWorkingHours(ctx, tx, dealershipID, hours); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *DealershipRepository) getWorkingHours(ctx context.Context, dealershipID uuid.UUID) ([]domain.WorkingHour, error) {
	query := `SELECT id, dealership_id, day_of_week, open_time, close_time, is_open, created_at, updated_at
		FROM working_hours
		WHERE dealership_id = $1
		ORDER BY array_position(ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY','SATURDAY','SUNDAY'], day_of_week)`

	rows, err := r.db.QueryContext(ctx, query, dealershipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []domain.WorkingHour
	for rows.Next() {
		var h domain.WorkingHour
		err := rows.Scan(
			&h.ID,
			&h.DealershipID,
			&h.DayOfWeek,
			&h.OpenTime,
			&h.CloseTime,
			&h.IsOpen,
			&h.CreatedAt,
			&h.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return hours, nil
}

func insertWorkingHours(ctx context.Context, tx *sql.Tx, dealershipID uuid.UUID, hours []domain.WorkingHour) error {
	query := `INSERT INTO working_hours (id, dealership_id, day_of_week, open_time, close_time, is_open)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, h := range hours {
		id := h.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, query, id, dealershipID, h.DayOfWeek, h.OpenTime, h.CloseTime, h.IsOpen); err != nil {
			return err
		}
	}
	return nil
}
