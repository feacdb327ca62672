package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"eduadmin/internal/client"
	"eduadmin/internal/middleware"
	"eduadmin/internal/wizard"
)

type WizardHandler struct {
	wizards *wizard.Manager
}

func NewWizardHandler(wizards *wizard.Manager) *WizardHandler {
	return &WizardHandler{wizards: wizards}
}

// POST /api/wizard
func (h *WizardHandler) Start(c *gin.Context) {
	st, err := h.wizards.Start(c.Request.Context(), c.GetString(middleware.CtxSessionID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start wizard"})
		return
	}
	c.JSON(http.StatusCreated, st)
}

// GET /api/wizard/:id
func (h *WizardHandler) Get(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/wizard/:id/course
// Step 1: create the course and unlock the modules step.
func (h *WizardHandler) SubmitCourse(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessionID := c.GetString(middleware.CtxSessionID)
	if err := h.wizards.SubmitCourse(c.Request.Context(), sessionID, st, req.input()); err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type wizardModuleReq struct {
	Title       string `json:"title" binding:"required"`
	ModuleOrder int    `json:"module_order" binding:"omitempty,gte=1"`
}

// POST /api/wizard/:id/modules
func (h *WizardHandler) AddModule(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	var req wizardModuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessionID := c.GetString(middleware.CtxSessionID)
	module, err := h.wizards.AddModule(c.Request.Context(), sessionID, st, req.Title, req.ModuleOrder)
	if err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"module": module, "wizard": st})
}

// PUT /api/wizard/:id/modules/:moduleID
// Renames or reorders a module added in step two.
func (h *WizardHandler) UpdateModule(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	moduleID, err := pathID(c, "moduleID")
	if err != nil {
		return
	}
	var req wizardModuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessionID := c.GetString(middleware.CtxSessionID)
	module, err := h.wizards.UpdateModule(c.Request.Context(), sessionID, st, moduleID, req.Title, req.ModuleOrder)
	if err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"module": module, "wizard": st})
}

// DELETE /api/wizard/:id/modules/:moduleID
func (h *WizardHandler) RemoveModule(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	moduleID, err := pathID(c, "moduleID")
	if err != nil {
		return
	}
	sessionID := c.GetString(middleware.CtxSessionID)
	if err := h.wizards.RemoveModule(c.Request.Context(), sessionID, st, moduleID); err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/wizard/:id/advance
// Unlocks the lessons step; refused while no modules exist.
func (h *WizardHandler) Advance(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	sessionID := c.GetString(middleware.CtxSessionID)
	if err := h.wizards.AdvanceToLessons(c.Request.Context(), sessionID, st); err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type wizardLessonReq struct {
	ModuleID    int64  `json:"module_id" binding:"required,gte=1"`
	Title       string `json:"title" binding:"required,min=5"`
	VideoURL    string `json:"video_url" binding:"required,url"`
	LessonOrder int    `json:"lesson_order" binding:"omitempty,gte=1"`
	Duration    string `json:"duration" binding:"required"`
}

// POST /api/wizard/:id/lessons
func (h *WizardHandler) AddLesson(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	var req wizardLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessionID := c.GetString(middleware.CtxSessionID)
	lesson, err := h.wizards.AddLesson(c.Request.Context(), sessionID, st, client.LessonInput{
		ModuleID:    req.ModuleID,
		Title:       req.Title,
		VideoURL:    req.VideoURL,
		LessonOrder: req.LessonOrder,
		Duration:    req.Duration,
	})
	if err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lesson": lesson, "wizard": st})
}

// wizardLessonUpdateReq is the lesson edit payload. module_id is
// optional; leaving it out keeps the lesson under its current module.
type wizardLessonUpdateReq struct {
	ModuleID    int64  `json:"module_id" binding:"omitempty,gte=1"`
	Title       string `json:"title" binding:"required,min=5"`
	VideoURL    string `json:"video_url" binding:"required,url"`
	LessonOrder int    `json:"lesson_order" binding:"omitempty,gte=1"`
	Duration    string `json:"duration" binding:"required"`
}

// PUT /api/wizard/:id/lessons/:lessonID
func (h *WizardHandler) UpdateLesson(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	lessonID, err := pathID(c, "lessonID")
	if err != nil {
		return
	}
	var req wizardLessonUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessionID := c.GetString(middleware.CtxSessionID)
	lesson, err := h.wizards.UpdateLesson(c.Request.Context(), sessionID, st, lessonID, client.LessonInput{
		ModuleID:    req.ModuleID,
		Title:       req.Title,
		VideoURL:    req.VideoURL,
		LessonOrder: req.LessonOrder,
		Duration:    req.Duration,
	})
	if err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson, "wizard": st})
}

// DELETE /api/wizard/:id/lessons/:lessonID
func (h *WizardHandler) RemoveLesson(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	lessonID, err := pathID(c, "lessonID")
	if err != nil {
		return
	}
	sessionID := c.GetString(middleware.CtxSessionID)
	if err := h.wizards.RemoveLesson(c.Request.Context(), sessionID, st, lessonID); err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /api/wizard/:id/modules/:moduleID/lessons
// Fetched fresh every time the active module changes.
func (h *WizardHandler) ModuleLessons(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	moduleID, err := pathID(c, "moduleID")
	if err != nil {
		return
	}
	lessons, err := h.wizards.ModuleLessons(c.Request.Context(), st, moduleID)
	if err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// POST /api/wizard/:id/finish
// Confirmation summary plus the new course's detail location.
func (h *WizardHandler) Finish(c *gin.Context) {
	st, ok := h.load(c)
	if !ok {
		return
	}
	summary, err := h.wizards.Finish(st)
	if err != nil {
		h.wizardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":  summary,
		"redirect": fmt.Sprintf("/courses/%d", summary.CourseID),
	})
}

func (h *WizardHandler) load(c *gin.Context) (*wizard.State, bool) {
	sessionID := c.GetString(middleware.CtxSessionID)
	st, err := h.wizards.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.wizardError(c, err)
		return nil, false
	}
	return st, true
}

func (h *WizardHandler) wizardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wizard.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Wizard not found"})
	case errors.Is(err, wizard.ErrNoModules):
		c.JSON(http.StatusConflict, gin.H{"error": "Please add at least one module"})
	case errors.Is(err, wizard.ErrStepLocked), errors.Is(err, wizard.ErrCourseCreated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrUnknownModule), errors.Is(err, wizard.ErrUnknownLesson):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		upstreamError(c, err)
	}
}
