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

// ReviewRepository provides database access for reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, course_id, student_id, rating, comment, status, created_at, updated_at`

// Create inserts a new review. The unique index on
// (course_id, student_id) keeps a student to one review per course;
// a duplicate surfaces as ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now

	const query = `INSERT INTO reviews (id, course_id, student_id, rating, comment, status, created_at, updated_at)
		VALUES (:id, :course_id, :student_id, :rating, :comment, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		if translated := translateUnique(err); translated == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// FindByID returns a review by identifier.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1 LIMIT 1`, reviewColumns)
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find review by id: %w", err)
	}
	return &review, nil
}

// FindByCourseAndStudent returns the review a student left on a course.
func (r *ReviewRepository) FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE course_id = $1 AND student_id = $2 LIMIT 1`, reviewColumns)
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, courseID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &review, nil
}

// UpdateStatus applies a moderation decision to a review record.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE reviews SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update review status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListWithRefs returns reviews matching the filter, joined with the
// author's and course's display fields, newest first.
func (r *ReviewRepository) ListWithRefs(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewWithRefs, error) {
	query := `SELECT r.id, r.course_id, r.student_id, r.rating, r.comment, r.status, r.created_at, r.updated_at,
			u.name AS student_name, u.avatar_url AS student_avatar_url,
			c.title AS course_title
		FROM reviews r
		JOIN users u ON u.id = r.student_id
		JOIN courses c ON c.id = r.course_id
		WHERE 1=1`
	var args []interface{}

	if filter.CourseID != "" {
		query += fmt.Sprintf(" AND r.course_id = $%d", len(args)+1)
		args = append(args, filter.CourseID)
	}
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND r.student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND r.status = $%d", len(args)+1)
		args = append(args, *filter.Status)
	}
	query += " ORDER BY r.created_at DESC"

	var reviews []models.ReviewWithRefs
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// ListByTeacherCourses returns the reviews left on a teacher's catalog,
// joined with author and course fields, newest first.
func (r *ReviewRepository) ListByTeacherCourses(ctx context.Context, teacherID string, status *models.ApprovalStatus) ([]models.ReviewWithRefs, error) {
	query := `SELECT r.id, r.course_id, r.student_id, r.rating, r.comment, r.status, r.created_at, r.updated_at,
			u.name AS student_name, u.avatar_url AS student_avatar_url,
			c.title AS course_title
		FROM reviews r
		JOIN users u ON u.id = r.student_id
		JOIN courses c ON c.id = r.course_id
		WHERE c.teacher_id = $1`
	args := []interface{}{teacherID}
	if status != nil {
		query += ` AND r.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY r.created_at DESC`

	var reviews []models.ReviewWithRefs
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("list reviews by teacher courses: %w", err)
	}
	return reviews, nil
}

// AverageRatingForCourse folds approved reviews of one course into a
// mean rating, 0 when none exist.
func (r *ReviewRepository) AverageRatingForCourse(ctx context.Context, courseID string) (float64, error) {
	const query = `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE course_id = $1 AND status = 'approved'`
	var avg float64
	if err := r.db.GetContext(ctx, &avg, query, courseID); err != nil {
		return 0, fmt.Errorf("average rating for course: %w", err)
	}
	return avg, nil
}

// AverageRatingForTeacher folds approved reviews across a teacher's
// catalog into a mean rating, 0 when none exist.
func (r *ReviewRepository) AverageRatingForTeacher(ctx context.Context, teacherID string) (float64, error) {
	const query = `SELECT COALESCE(AVG(r.rating), 0) FROM reviews r JOIN courses c ON c.id = r.course_id WHERE c.teacher_id = $1 AND r.status = 'approved'`
	var avg float64
	if err := r.db.GetContext(ctx, &avg, query, teacherID); err != nil {
		return 0, fmt.Errorf("average rating for teacher: %w", err)
	}
	return avg, nil
}

// CountByCourse returns how many reviews a course holds, optionally
// scoped to one status.
func (r *ReviewRepository) CountByCourse(ctx context.Context, courseID string, status *models.ApprovalStatus) (int, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE course_id = $1`
	args := []interface{}{courseID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count reviews by course: %w", err)
	}
	return count, nil
}

// CountByStudent returns how many reviews one student has written.
func (r *ReviewRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM reviews WHERE student_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count reviews by student: %w", err)
	}
	return count, nil
}

// CountByStatus returns how many reviews sit in the given state.
func (r *ReviewRepository) CountByStatus(ctx context.Context, status models.ApprovalStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM reviews WHERE status = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, status); err != nil {
		return 0, fmt.Errorf("count reviews by status: %w", err)
	}
	return count, nil
}
