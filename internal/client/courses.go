package client

import (
	"context"
	"fmt"
	"net/http"

	"eduadmin/internal/domain"
)

// CourseInput is the create/update payload for a course. Discount is a
// pointer because the field is optional upstream.
type CourseInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Discount    *float64 `json:"discount,omitempty"`
	Duration    string   `json:"duration"`
	Category    string   `json:"category"`
	Language    string   `json:"language"`
	ImageURL    string   `json:"image_url"`
}

func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (*domain.Course, error) {
	var course domain.Course
	if err := c.do(ctx, http.MethodPost, "/api/courses", in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id int64, in CourseInput) (*domain.Course, error) {
	var course domain.Course
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/courses/%d", id), in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/courses/%d", id), nil, nil)
}

func (c *Client) Courses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Course(ctx context.Context, id int64) (*domain.Course, error) {
	var course domain.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/courses/%d", id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}
