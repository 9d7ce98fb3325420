package projects

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/masterdata/shared"
	internalShared "github.com/meridian-erp/meridian-erp/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Project, int, error)
	Get(ctx context.Context, id int64) (Project, error)
	Create(ctx context.Context, project Project) (Project, error)
	Update(ctx context.Context, id int64, project Project) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const projectColumns = `id, code, name, description, status, start_date, end_date, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Project, int, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	countQuery := `SELECT COUNT(*) FROM projects WHERE 1=1`
	countArgs := []interface{}{}
	countArg := 0
	if filters.Search != "" {
		countArg++
		countQuery += ` AND (name ILIKE $` + strconv.Itoa(countArg) + ` OR code ILIKE $` + strconv.Itoa(countArg) + `)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		countArg++
		countQuery += ` AND status = $` + strconv.Itoa(countArg)
		countArgs = append(countArgs, filters.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, project)
	}
	return projects, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Project, error) {
	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	project, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, internalShared.ErrNotFound
	}
	return project, err
}

func (r *repository) Create(ctx context.Context, project Project) (Project, error) {
	query := `INSERT INTO projects (code, name, description, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, project.Code, project.Name, project.Description, project.Status, project.StartDate, project.EndDate, now, now).Scan(&project.ID)
	if err != nil {
		return Project{}, err
	}
	project.CreatedAt = now
	project.UpdatedAt = now
	return project, nil
}

func (r *repository) Update(ctx context.Context, id int64, project Project) error {
	query := `UPDATE projects SET code = $1, name = $2, description = $3, status = $4, start_date = $5, end_date = $6, updated_at = $7 WHERE id = $8`
	tag, err := r.db.Exec(ctx, query, project.Code, project.Name, project.Description, project.Status, project.StartDate, project.EndDate, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Status, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "code":
		return "code " + dir
	case "name":
		return "name " + dir
	case "status":
		return "status " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
