package domain

import "time"

// Course is the top-level sellable unit on the platform. Every field is
// owned by the upstream API; the gateway never assigns or derives IDs.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount"`
	Duration    string    `json:"duration"`
	Category    string    `json:"category"`
	Language    string    `json:"language"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Module groups lessons inside a course. module_order starts at 1.
type Module struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	Title       string `json:"title"`
	ModuleOrder int    `json:"module_order"`
}

// Lesson is a single video unit inside a module.
type Lesson struct {
	ID          int64  `json:"id"`
	ModuleID    int64  `json:"module_id"`
	Title       string `json:"title"`
	VideoURL    string `json:"video_url"`
	LessonOrder int    `json:"lesson_order"`
	Duration    string `json:"duration"`
}
