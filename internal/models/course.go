package models

import "time"

// Course is a teaching unit owned by exactly one teacher. Content is
// mutated only by the owner; Status only by the admin moderation flow
// (plus the resubmission edge on content edits).
type Course struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	TeacherID   string         `db:"teacher_id" json:"teacher_id"`
	Status      ApprovalStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// CourseWithTeacher joins the owning teacher's public fields onto a
// course for read-side responses.
type CourseWithTeacher struct {
	Course
	TeacherName  string  `db:"teacher_name" json:"teacher_name"`
	TeacherEmail string  `db:"teacher_email" json:"teacher_email"`
	TeacherBio   *string `db:"teacher_bio" json:"teacher_bio,omitempty"`
}

// CourseSummary enriches a course with its read-side aggregates.
type CourseSummary struct {
	Course
	EnrollmentCount int     `db:"enrollment_count" json:"enrollment_count"`
	AverageRating   float64 `db:"average_rating" json:"average_rating"`
}

// CourseFilter captures filtering criteria for listing courses.
type CourseFilter struct {
	TeacherID string
	Status    *ApprovalStatus
	Limit     int
}
