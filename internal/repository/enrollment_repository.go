package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/learnhub/lms-api/internal/models"
)

// EnrollmentRepository provides database access for enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new instance of EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `id, course_id, student_id, progress, completed, joined_at, last_accessed_at`

// Create inserts a new enrollment. The unique index on
// (course_id, student_id) makes the insert an atomic
// insert-if-absent; a duplicate surfaces as ErrDuplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.JoinedAt.IsZero() {
		enrollment.JoinedAt = now
	}
	if enrollment.LastAccessedAt.IsZero() {
		enrollment.LastAccessedAt = now
	}

	const query = `INSERT INTO enrollments (id, course_id, student_id, progress, completed, joined_at, last_accessed_at)
		VALUES (:id, :course_id, :student_id, :progress, :completed, :joined_at, :last_accessed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if translated := translateUnique(err); translated == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByCourseAndStudent returns the enrollment for a (course, student)
// pair.
func (r *EnrollmentRepository) FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE course_id = $1 AND student_id = $2 LIMIT 1`, enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, courseID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// UpdateProgress persists the progress fields of an enrollment.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE enrollments SET progress = :progress, completed = :completed, last_accessed_at = :last_accessed_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment progress: %w", err)
	}
	return nil
}

// ListByStudentWithCourse returns a student's enrollments populated
// with course and teacher display fields, newest first.
func (r *EnrollmentRepository) ListByStudentWithCourse(ctx context.Context, studentID string) ([]models.EnrollmentWithCourse, error) {
	const query = `SELECT e.id, e.course_id, e.student_id, e.progress, e.completed, e.joined_at, e.last_accessed_at,
			c.title AS course_title, c.description AS course_description, c.status AS course_status,
			u.name AS teacher_name
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		JOIN users u ON u.id = c.teacher_id
		WHERE e.student_id = $1
		ORDER BY e.joined_at DESC`

	var enrollments []models.EnrollmentWithCourse
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return enrollments, nil
}

// ListByCourseWithStudent returns a course roster populated with the
// students' public fields, newest first.
func (r *EnrollmentRepository) ListByCourseWithStudent(ctx context.Context, courseID string) ([]models.EnrollmentWithStudent, error) {
	const query = `SELECT e.id, e.course_id, e.student_id, e.progress, e.completed, e.joined_at, e.last_accessed_at,
			u.name AS student_name, u.email AS student_email
		FROM enrollments e
		JOIN users u ON u.id = e.student_id
		WHERE e.course_id = $1
		ORDER BY e.joined_at DESC`

	var enrollments []models.EnrollmentWithStudent
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrollments by course: %w", err)
	}
	return enrollments, nil
}

// CountByCourse returns the enrollment cardinality of one course.
func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseID); err != nil {
		return 0, fmt.Errorf("count enrollments by course: %w", err)
	}
	return count, nil
}

// CountByTeacher returns how many enrollments exist across a teacher's
// entire catalog.
func (r *EnrollmentRepository) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE c.teacher_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID); err != nil {
		return 0, fmt.Errorf("count enrollments by teacher: %w", err)
	}
	return count, nil
}

// CountByStudent returns how many enrollments one student holds.
func (r *EnrollmentRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE student_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count enrollments by student: %w", err)
	}
	return count, nil
}
