package client

import (
	"context"
	"fmt"
	"net/http"

	"eduadmin/internal/domain"
)

type JobInput struct {
	Title       string          `json:"title"`
	CompanyName string          `json:"company_name"`
	Location    string          `json:"location"`
	JobType     domain.JobType  `json:"job_type"`
	Mode        domain.WorkMode `json:"mode"`
	Openings    int             `json:"openings"`
	Package     string          `json:"package"`
	Description string          `json:"description"`
	ApplyLink   string          `json:"apply_link"`
}

func (c *Client) CreateJob(ctx context.Context, in JobInput) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) Jobs(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) Job(ctx context.Context, id int64) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/jobs/%d", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id int64, in JobInput) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/jobs/%d", id), in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", id), nil, nil)
}

func (c *Client) JobApplications(ctx context.Context, jobID int64) ([]domain.Application, error) {
	var apps []domain.Application
	path := fmt.Sprintf("/api/jobs/%d/applications", jobID)
	if err := c.do(ctx, http.MethodGet, path, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// LinkJobToCourse maps a job posting to a related course.
func (c *Client) LinkJobToCourse(ctx context.Context, jobID, courseID int64) error {
	body := map[string]int64{"course_id": courseID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/jobs/%d/map-course", jobID), body, nil)
}

func (c *Client) JobsByCourse(ctx context.Context, courseID int64) ([]domain.Job, error) {
	var jobs []domain.Job
	path := fmt.Sprintf("/api/jobs/course/%d", courseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
