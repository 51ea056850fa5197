package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/corebank/subledger/internal/apperrors"
	"github.com/corebank/subledger/internal/core/domain"
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGLClosureRepository struct {
	BaseRepository
}

// newPgxGLClosureRepository creates a new repository for branch accounting closures.
func newPgxGLClosureRepository(pool *pgxpool.Pool) portsrepo.GLClosureRepository {
	return &PgxGLClosureRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GLClosureRepository = (*PgxGLClosureRepository)(nil)

// FindLatestByOffice returns the most recent closure for an office. An office
// that has never been closed yields (nil, nil), not an error.
func (r *PgxGLClosureRepository) FindLatestByOffice(ctx context.Context, officeID int64) (*domain.GLClosure, error) {
	query := `
		SELECT gl_closure_id, office_id, closing_date, comments
		FROM gl_closures
		WHERE office_id = $1
		ORDER BY closing_date DESC, gl_closure_id DESC
		LIMIT 1;
	`
	var closure domain.GLClosure
	err := r.Pool.QueryRow(ctx, query, officeID).Scan(
		&closure.GLClosureID,
		&closure.OfficeID,
		&closure.ClosingDate,
		&closure.Comments,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest closure for office %d: %w", officeID, err)
	}
	return &closure, nil
}

type PgxOfficeRepository struct {
	BaseRepository
}

// newPgxOfficeRepository creates a new repository for branch offices.
func newPgxOfficeRepository(pool *pgxpool.Pool) portsrepo.OfficeRepository {
	return &PgxOfficeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OfficeRepository = (*PgxOfficeRepository)(nil)

func (r *PgxOfficeRepository) FindOfficeByID(ctx context.Context, officeID int64) (*domain.Office, error) {
	query := `SELECT office_id, name FROM offices WHERE office_id = $1;`

	var office domain.Office
	err := r.Pool.QueryRow(ctx, query, officeID).Scan(&office.OfficeID, &office.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("office %d: %w", officeID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find office %d: %w", officeID, err)
	}
	return &office, nil
}
