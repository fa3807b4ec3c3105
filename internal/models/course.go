package models

import "time"

type Course struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
}

type Lesson struct {
	ID       int64  `json:"id" db:"id"`
	Title    string `json:"title" db:"title"`
	Content  string `json:"content" db:"content"`
	CourseID int64  `json:"course_id" db:"course_id"`
}

type Enrollment struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	CourseID   int64     `json:"course_id" db:"course_id"`
	EnrolledAt time.Time `json:"enrollment_date" db:"enrolled_at"`
	Completed  bool      `json:"completed" db:"completed"`
}
