package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/learnhub/lms-api/internal/models"
)

// CourseRepository provides database access for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, title, description, teacher_id, status, created_at, updated_at`

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, title, description, teacher_id, status, created_at, updated_at)
		VALUES (:id, :title, :description, :teacher_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1 LIMIT 1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// Update persists the mutable fields of a course, including the status
// carried by the resubmission edge.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, description = :description, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// UpdateStatus applies a moderation decision to a course record.
func (r *CourseRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE courses SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update course status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns courses matching the filter, newest first.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	baseQuery := `FROM courses WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC", courseColumns, baseQuery)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListWithTeacher returns courses joined with the owning teacher's
// public fields, optionally filtered by status, newest first.
func (r *CourseRepository) ListWithTeacher(ctx context.Context, status *models.ApprovalStatus) ([]models.CourseWithTeacher, error) {
	query := `SELECT c.id, c.title, c.description, c.teacher_id, c.status, c.created_at, c.updated_at,
			u.name AS teacher_name, u.email AS teacher_email, u.bio AS teacher_bio
		FROM courses c
		JOIN users u ON u.id = c.teacher_id`
	var args []interface{}
	if status != nil {
		query += ` WHERE c.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY c.created_at DESC`

	var courses []models.CourseWithTeacher
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses with teacher: %w", err)
	}
	return courses, nil
}

// FindWithTeacher returns one course joined with its teacher, scoped
// to the given status when provided.
func (r *CourseRepository) FindWithTeacher(ctx context.Context, id string, status *models.ApprovalStatus) (*models.CourseWithTeacher, error) {
	query := `SELECT c.id, c.title, c.description, c.teacher_id, c.status, c.created_at, c.updated_at,
			u.name AS teacher_name, u.email AS teacher_email, u.bio AS teacher_bio
		FROM courses c
		JOIN users u ON u.id = c.teacher_id
		WHERE c.id = $1`
	args := []interface{}{id}
	if status != nil {
		query += ` AND c.status = $2`
		args = append(args, *status)
	}
	query += ` LIMIT 1`

	var course models.CourseWithTeacher
	if err := r.db.GetContext(ctx, &course, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course with teacher: %w", err)
	}
	return &course, nil
}

// ListSummariesByTeacher returns a teacher's courses enriched with
// enrollment counts and approved-review rating averages. The averages
// coalesce to 0 for courses without approved reviews.
func (r *CourseRepository) ListSummariesByTeacher(ctx context.Context, teacherID string, limit int) ([]models.CourseSummary, error) {
	query := `SELECT c.id, c.title, c.description, c.teacher_id, c.status, c.created_at, c.updated_at,
			COALESCE(e.cnt, 0) AS enrollment_count,
			COALESCE(rv.avg_rating, 0) AS average_rating
		FROM courses c
		LEFT JOIN (SELECT course_id, COUNT(*) AS cnt FROM enrollments GROUP BY course_id) e ON e.course_id = c.id
		LEFT JOIN (SELECT course_id, AVG(rating) AS avg_rating FROM reviews WHERE status = 'approved' GROUP BY course_id) rv ON rv.course_id = c.id
		WHERE c.teacher_id = $1
		ORDER BY c.created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var summaries []models.CourseSummary
	if err := r.db.SelectContext(ctx, &summaries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list course summaries by teacher: %w", err)
	}
	return summaries, nil
}

// Count returns the number of courses matching the filter.
func (r *CourseRepository) Count(ctx context.Context, filter models.CourseFilter) (int, error) {
	query := `SELECT COUNT(*) FROM courses WHERE 1=1`
	var args []interface{}
	if filter.TeacherID != "" {
		query += fmt.Sprintf(" AND teacher_id = $%d", len(args)+1)
		args = append(args, filter.TeacherID)
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, *filter.Status)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return count, nil
}
