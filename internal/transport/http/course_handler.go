package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eduadmin/internal/cache"
	"eduadmin/internal/client"
	"eduadmin/internal/listing"
	"eduadmin/internal/middleware"
)

type CourseHandler struct {
	api   *client.Client
	prefs *cache.Prefs
}

func NewCourseHandler(api *client.Client, prefs *cache.Prefs) *CourseHandler {
	return &CourseHandler{api: api, prefs: prefs}
}

// courseReq mirrors the course form. Price is a pointer so that an
// explicit zero (a free course) survives the required check.
type courseReq struct {
	Title       string   `json:"title" binding:"required,min=5"`
	Description string   `json:"description" binding:"required,min=20"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Discount    *float64 `json:"discount" binding:"omitempty,gte=0,lte=100"`
	Duration    string   `json:"duration" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Language    string   `json:"language" binding:"required"`
	ImageURL    string   `json:"image_url" binding:"required,url"`
}

func (r courseReq) input() client.CourseInput {
	return client.CourseInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       *r.Price,
		Discount:    r.Discount,
		Duration:    r.Duration,
		Category:    r.Category,
		Language:    r.Language,
		ImageURL:    r.ImageURL,
	}
}

// GET /api/courses
// Fetches the full collection, then filters and sorts in memory. A
// request without filter parameters restores the session's saved
// settings; one with parameters overwrites them.
func (h *CourseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.GetString(middleware.CtxSessionID)
	q := c.Request.URL.Query()

	var filters listing.CourseFilters
	if q.Has("search") || q.Has("sort") || q.Has("price") || q.Has("min_price") {
		filters = listing.ParseCourseFilters(q)
		saved := cache.CoursePrefs{Search: filters.Search, Sort: filters.Sort, Price: filters.Price}
		if err := h.prefs.SaveCourse(ctx, sessionID, saved); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save filters"})
			return
		}
	} else {
		saved, ok, err := h.prefs.LoadCourse(ctx, sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load filters"})
			return
		}
		if ok {
			filters = listing.CourseFilters{Search: saved.Search, Sort: saved.Sort, Price: saved.Price}
		}
		filters = filters.Normalize()
	}

	courses, err := h.api.Courses(ctx)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"courses": listing.Courses(courses, filters),
		"filters": filters,
	})
}

// GET /api/courses/:id
func (h *CourseHandler) GetOne(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	ctx := c.Request.Context()
	course, err := h.api.Course(ctx, id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	modules, err := h.api.ModulesByCourse(ctx, id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course, "modules": modules})
}

// POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.api.CreateCourse(c.Request.Context(), req.input())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// PUT /api/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.api.UpdateCourse(c.Request.Context(), id, req.input())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	if err := h.api.DeleteCourse(c.Request.Context(), id); err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/courses/:id/modules
func (h *CourseHandler) Modules(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	modules, err := h.api.ModulesByCourse(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, modules)
}

// GET /api/courses/:id/jobs
// Job postings mapped to this course, for the detail view's related
// openings panel.
func (h *CourseHandler) RelatedJobs(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	jobs, err := h.api.JobsByCourse(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GET /api/modules/:id
// Prefills the module edit form.
func (h *CourseHandler) GetModule(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	module, err := h.api.Module(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, module)
}

// GET /api/modules/:id/lessons
func (h *CourseHandler) ModuleLessons(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	lessons, err := h.api.LessonsByModule(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// GET /api/lessons/:id
// Prefills the lesson edit form.
func (h *CourseHandler) GetLesson(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	lesson, err := h.api.Lesson(c.Request.Context(), id)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// pathID parses a numeric path parameter, answering the request itself
// on failure.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, errInvalidID
	}
	return id, nil
}
