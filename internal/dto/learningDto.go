package dto

type CourseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
}

// CourseUpdate leaves fields that are nil untouched.
type CourseUpdate struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description"`
}

type LessonRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content"`
	CourseID int64  `json:"course_id" validate:"required,gt=0"`
}

type LessonUpdate struct {
	Title    *string `json:"title" validate:"omitnil,min=1,max=200"`
	Content  *string `json:"content"`
	CourseID *int64  `json:"course_id" validate:"omitnil,gt=0"`
}

type EnrollmentRequest struct {
	CourseID int64 `json:"course_id" validate:"required,gt=0"`
}

type EnrollmentUpdate struct {
	CourseID  *int64 `json:"course_id" validate:"omitnil,gt=0"`
	Completed *bool  `json:"completed"`
}
