package fabrication

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Job, int, error)
	Recent(ctx context.Context, limit int) ([]Job, error)
	Get(ctx context.Context, id int64) (Job, error)
	Create(ctx context.Context, job Job) (Job, error)
	UpdateStatus(ctx context.Context, id int64, status JobStatus) error
	Delete(ctx context.Context, id int64) error
}

// ListFilters narrows fabrication job listings.
type ListFilters struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	ProjectID int64
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const jobSelect = `SELECT j.id, j.job_number, j.project_id, COALESCE(p.name, ''), j.description, j.status, j.created_at, j.updated_at
	FROM fabrication_jobs j
	LEFT JOIN projects p ON p.id = j.project_id`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Job, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND (j.job_number ILIKE $` + strconv.Itoa(argCount) + ` OR j.description ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		where += ` AND j.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if filters.ProjectID > 0 {
		argCount++
		where += ` AND j.project_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.ProjectID)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fabrication_jobs j`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := jobSelect + where + ` ORDER BY j.created_at DESC`
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

	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` ORDER BY j.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *repository) Get(ctx context.Context, id int64) (Job, error) {
	var j Job
	err := r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id).
		Scan(&j.ID, &j.JobNumber, &j.ProjectID, &j.ProjectName, &j.Description, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, shared.ErrNotFound
	}
	return j, err
}

func (r *repository) Create(ctx context.Context, job Job) (Job, error) {
	query := `INSERT INTO fabrication_jobs (job_number, project_id, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, job.JobNumber, job.ProjectID, job.Description, job.Status, now, now).Scan(&job.ID)
	if err != nil {
		return Job{}, err
	}
	job.CreatedAt = now
	job.UpdatedAt = now
	return job, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status JobStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE fabrication_jobs SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fabrication_jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanJobs(rows pgx.Rows) ([]Job, error) {
	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.JobNumber, &j.ProjectID, &j.ProjectName, &j.Description, &j.Status, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
