package client

import (
	"context"
	"fmt"
	"net/http"

	"eduadmin/internal/domain"
)

type LessonInput struct {
	ModuleID    int64  `json:"module_id"`
	Title       string `json:"title"`
	VideoURL    string `json:"video_url"`
	LessonOrder int    `json:"lesson_order"`
	Duration    string `json:"duration"`
}

func (c *Client) CreateLesson(ctx context.Context, in LessonInput) (*domain.Lesson, error) {
	var lesson domain.Lesson
	if err := c.do(ctx, http.MethodPost, "/api/lessons", in, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *Client) LessonsByModule(ctx context.Context, moduleID int64) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	path := fmt.Sprintf("/api/lessons/module/%d", moduleID)
	if err := c.do(ctx, http.MethodGet, path, nil, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (c *Client) Lesson(ctx context.Context, id int64) (*domain.Lesson, error) {
	var lesson domain.Lesson
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/lessons/%d", id), nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *Client) UpdateLesson(ctx context.Context, id int64, in LessonInput) (*domain.Lesson, error) {
	var lesson domain.Lesson
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/lessons/%d", id), in, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *Client) DeleteLesson(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/lessons/%d", id), nil, nil)
}
