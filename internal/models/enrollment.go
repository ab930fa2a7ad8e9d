package models

import "time"

// Enrollment joins a student to a course. At most one enrollment may
// exist per (course, student) pair; the database enforces this with a
// unique index so concurrent duplicate attempts cannot both commit.
type Enrollment struct {
	ID             string    `db:"id" json:"id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	Progress       int       `db:"progress" json:"progress"`
	Completed      bool      `db:"completed" json:"completed"`
	JoinedAt       time.Time `db:"joined_at" json:"joined_at"`
	LastAccessedAt time.Time `db:"last_accessed_at" json:"last_accessed_at"`
}

// SetProgress clamps and applies a progress value, recomputing the
// derived completed flag and touching the last-accessed timestamp.
func (e *Enrollment) SetProgress(progress int, now time.Time) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	e.Progress = progress
	e.Completed = progress >= 100
	e.LastAccessedAt = now
}

// EnrollmentWithCourse populates course and teacher fields onto an
// enrollment for student-facing listings.
type EnrollmentWithCourse struct {
	Enrollment
	CourseTitle       string         `db:"course_title" json:"course_title"`
	CourseDescription string         `db:"course_description" json:"course_description"`
	CourseStatus      ApprovalStatus `db:"course_status" json:"course_status"`
	TeacherName       string         `db:"teacher_name" json:"teacher_name"`
}

// EnrollmentWithStudent populates the enrolled student's public fields
// for teacher-facing course rosters.
type EnrollmentWithStudent struct {
	Enrollment
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
}
