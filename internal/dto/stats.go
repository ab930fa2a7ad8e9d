package dto

import "github.com/learnhub/lms-api/internal/models"

// AdminDashboardStats carries the admin landing-page cardinalities.
// Everything is recomputed per request; the short-TTL cache in front
// of it is best effort only.
type AdminDashboardStats struct {
	TotalStudents   int `json:"total_students"`
	TotalTeachers   int `json:"total_teachers"`
	TotalCourses    int `json:"total_courses"`
	PendingTeachers int `json:"pending_teachers"`
	PendingCourses  int `json:"pending_courses"`
	PendingReviews  int `json:"pending_reviews"`
}

// CourseStats summarises the read-side aggregates of one course.
// AverageRating folds over approved reviews only and is 0 for an
// empty set.
type CourseStats struct {
	TotalEnrollments int     `json:"total_enrollments"`
	TotalReviews     int     `json:"total_reviews"`
	AverageRating    float64 `json:"average_rating"`
}

// TeacherStats summarises a teacher's catalog for their dashboard.
type TeacherStats struct {
	TotalCourses    int     `json:"total_courses"`
	PendingCourses  int     `json:"pending_courses"`
	ApprovedCourses int     `json:"approved_courses"`
	TotalStudents   int     `json:"total_students"`
	AverageRating   float64 `json:"average_rating"`
}

// TeacherDashboardResponse is returned by the teacher stats endpoint.
type TeacherDashboardResponse struct {
	Stats         TeacherStats           `json:"stats"`
	RecentCourses []models.CourseSummary `json:"recent_courses"`
}

// TeacherCourseDetail is the owner's view of a course including its
// roster and approved reviews.
type TeacherCourseDetail struct {
	Course      models.Course                  `json:"course"`
	Enrollments []models.EnrollmentWithStudent `json:"enrollments"`
	Reviews     []models.ReviewWithRefs        `json:"reviews"`
	Stats       CourseStats                    `json:"stats"`
}

// CatalogCourse is a public catalog entry: an approved course with its
// teacher and read-side aggregates.
type CatalogCourse struct {
	models.CourseWithTeacher
	Stats CourseStats `json:"stats"`
}

// StudentCourseDetail is the catalog view of an approved course,
// personalised with the caller's enrollment and review state.
type StudentCourseDetail struct {
	Course      models.CourseWithTeacher `json:"course"`
	Reviews     []models.ReviewWithRefs  `json:"reviews"`
	IsEnrolled  bool                     `json:"is_enrolled"`
	HasReviewed bool                     `json:"has_reviewed"`
	Stats       CourseStats              `json:"stats"`
}

// TeacherDetailStats aggregates a teacher's catalog for the admin
// detail view.
type TeacherDetailStats struct {
	TotalCourses  int     `json:"total_courses"`
	TotalStudents int     `json:"total_students"`
	AverageRating float64 `json:"average_rating"`
}

// AdminTeacherDetail is the admin's drill-down on one teacher.
type AdminTeacherDetail struct {
	Teacher models.User             `json:"teacher"`
	Courses []models.CourseSummary  `json:"courses"`
	Reviews []models.ReviewWithRefs `json:"reviews"`
	Stats   TeacherDetailStats      `json:"stats"`
}

// StudentDetailStats aggregates a student's activity for the admin
// detail view.
type StudentDetailStats struct {
	TotalEnrollments int `json:"total_enrollments"`
	TotalReviews     int `json:"total_reviews"`
}

// AdminStudentDetail is the admin's drill-down on one student.
type AdminStudentDetail struct {
	Student     models.User                   `json:"student"`
	Enrollments []models.EnrollmentWithCourse `json:"enrollments"`
	Reviews     []models.ReviewWithRefs       `json:"reviews"`
	Stats       StudentDetailStats            `json:"stats"`
}
