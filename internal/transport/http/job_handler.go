package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eduadmin/internal/client"
	"eduadmin/internal/domain"
	"eduadmin/internal/listing"
)

type JobHandler struct {
	api *client.Client
}

func NewJobHandler(api *client.Client) *JobHandler {
	return &JobHandler{api: api}
}

type jobReq struct {
	Title       string `json:"title" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	JobType     string `json:"job_type" binding:"required,oneof=full-time part-time contract internship freelance"`
	Mode        string `json:"mode" binding:"required,oneof=office remote hybrid"`
	Openings    int    `json:"openings" binding:"required,gte=1"`
	Package     string `json:"package" binding:"required"`
	Description string `json:"description" binding:"required"`
	ApplyLink   string `json:"apply_link" binding:"required,url"`
}

func (r jobReq) input() client.JobInput {
	return client.JobInput{
		Title:       r.Title,
		CompanyName: r.CompanyName,
		Location:    r.Location,
		JobType:     domain.JobType(r.JobType),
		Mode:        domain.WorkMode(r.Mode),
		Openings:    r.Openings,
		Package:     r.Package,
		Description: r.Description,
		ApplyLink:   r.ApplyLink,
	}
}

// GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.api.Jobs(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	filters := listing.ParseJobFilters(c.Request.URL.Query())
	c.JSON(http.StatusOK, gin.H{
		"jobs":    listing.Jobs(jobs, filters),
		"filters": filters,
	})
}

// GET /api/jobs/:id
func (h *JobHandler) GetOne(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	job, err := h.api.Job(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// POST /api/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req jobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := h.api.CreateJob(c.Request.Context(), req.input())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// PUT /api/jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	var req jobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := h.api.UpdateJob(c.Request.Context(), id, req.input())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	if err := h.api.DeleteJob(c.Request.Context(), id); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/jobs/:id/applications
// Optional ?status= narrows to one status. Status changes themselves
// are a view-local concern; the upstream API has no write endpoint for
// them yet, so none is proxied here.
func (h *JobHandler) Applications(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	apps, err := h.api.JobApplications(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	status := domain.ApplicationStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	c.JSON(http.StatusOK, listing.Applications(apps, status))
}

type mapCourseReq struct {
	CourseID int64 `json:"course_id" binding:"required,gte=1"`
}

// POST /api/jobs/:id/map-course
func (h *JobHandler) MapCourse(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	var req mapCourseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.api.LinkJobToCourse(c.Request.Context(), id, req.CourseID); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
