package models

import "time"

// Review is a student's feedback on a course. Content is immutable
// after creation; Status is owned by the admin moderation flow. One
// review per (course, student) pair, enforced by a unique index.
type Review struct {
	ID        string         `db:"id" json:"id"`
	CourseID  string         `db:"course_id" json:"course_id"`
	StudentID string         `db:"student_id" json:"student_id"`
	Rating    int            `db:"rating" json:"rating"`
	Comment   string         `db:"comment" json:"comment"`
	Status    ApprovalStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ReviewWithRefs joins student and course display fields onto a review
// for moderation queues and public listings.
type ReviewWithRefs struct {
	Review
	StudentName      string  `db:"student_name" json:"student_name"`
	StudentAvatarURL *string `db:"student_avatar_url" json:"student_avatar_url,omitempty"`
	CourseTitle      string  `db:"course_title" json:"course_title"`
}

// ReviewFilter captures filtering criteria for listing reviews.
type ReviewFilter struct {
	CourseID  string
	StudentID string
	Status    *ApprovalStatus
}
