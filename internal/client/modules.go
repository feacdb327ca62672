package client

import (
	"context"
	"fmt"
	"net/http"

	"eduadmin/internal/domain"
)

type ModuleInput struct {
	CourseID    int64  `json:"course_id"`
	Title       string `json:"title"`
	ModuleOrder int    `json:"module_order"`
}

func (c *Client) CreateModule(ctx context.Context, in ModuleInput) (*domain.Module, error) {
	var module domain.Module
	if err := c.do(ctx, http.MethodPost, "/api/modules", in, &module); err != nil {
		return nil, err
	}
	return &module, nil
}

func (c *Client) ModulesByCourse(ctx context.Context, courseID int64) ([]domain.Module, error) {
	var modules []domain.Module
	path := fmt.Sprintf("/api/modules/course/%d", courseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *Client) Module(ctx context.Context, id int64) (*domain.Module, error) {
	var module domain.Module
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/modules/%d", id), nil, &module); err != nil {
		return nil, err
	}
	return &module, nil
}

func (c *Client) UpdateModule(ctx context.Context, id int64, in ModuleInput) (*domain.Module, error) {
	var module domain.Module
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/modules/%d", id), in, &module); err != nil {
		return nil, err
	}
	return &module, nil
}

func (c *Client) DeleteModule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/modules/%d", id), nil, nil)
}
