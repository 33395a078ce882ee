package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geodash/internal/core/domain"
)

const projectColumns = `id, name, COALESCE(description, ''), latitude, longitude,
	budget_allocated, budget_spent,
	COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(expected_completion_date, 'YYYY-MM-DD'), ''),
	status, funding_source`

const upsertProject = `
	INSERT INTO projects (id, name, description, latitude, longitude,
		budget_allocated, budget_spent, start_date, expected_completion_date,
		status, funding_source, updated_at)
	VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7,
		NULLIF($8, '')::date, NULLIF($9, '')::date, $10, $11, now())
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, description = EXCLUDED.description,
	    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
	    budget_allocated = EXCLUDED.budget_allocated,
	    budget_spent = EXCLUDED.budget_spent,
	    start_date = EXCLUDED.start_date,
	    expected_completion_date = EXCLUDED.expected_completion_date,
	    status = EXCLUDED.status, funding_source = EXCLUDED.funding_source,
	    updated_at = now()
`

// ProjectRepo implements ports.ProjectRepository with pgx.
type ProjectRepo struct {
	db *DB
}

// NewProjectRepo creates a new ProjectRepo.
func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// List returns every project ordered by id.
func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetByID returns a project by id.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertBatch inserts many projects using pgx.Batch.
func (r *ProjectRepo) UpsertBatch(ctx context.Context, projects []domain.Project) error {
	batch := &pgx.Batch{}
	for _, p := range projects {
		batch.Queue(upsertProject,
			p.ID, p.Name, p.Description, p.Latitude, p.Longitude,
			p.BudgetAllocated, p.BudgetSpent, p.StartDate, p.ExpectedCompletionDate,
			string(p.Status), string(p.FundingSource))
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range projects {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	var status, funding string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Latitude, &p.Longitude,
		&p.BudgetAllocated, &p.BudgetSpent, &p.StartDate, &p.ExpectedCompletionDate,
		&status, &funding,
	)
	p.Status = domain.Status(status)
	p.FundingSource = domain.FundingSource(funding)
	return p, err
}
