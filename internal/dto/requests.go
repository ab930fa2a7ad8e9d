package dto

// CreateCourseRequest is the teacher payload for adding a course.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required"`
}

// UpdateCourseRequest carries the owner-editable course fields. Nil
// fields are left untouched.
type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description"`
}

// UpdateProgressRequest moves a student's progress marker on an
// enrollment. Values outside 0..100 are rejected up front.
type UpdateProgressRequest struct {
	Progress int `json:"progress" validate:"min=0,max=100"`
}

// CreateReviewRequest is the student payload for reviewing a course.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// DecisionRequest carries an admin moderation decision. Parsing into
// an ApprovalStatus happens in the service so only the two terminal
// states get through.
type DecisionRequest struct {
	Status string `json:"status" validate:"required"`
}
