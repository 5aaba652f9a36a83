package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ceimundo/asistencia-api/internal/models"
)

// PersonRepository reads the externally-owned roster of registered people.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs the repository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// FindByName returns the person whose name equals the scanned code. Names are
// unique, so at most one row matches. Returns sql.ErrNoRows when none does.
func (r *PersonRepository) FindByName(ctx context.Context, name string) (*models.Person, error) {
	query := `SELECT id, name, type, created_at FROM people WHERE name = $1`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, name); err != nil {
		return nil, err
	}
	return &person, nil
}
