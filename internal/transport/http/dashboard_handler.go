package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"eduadmin/internal/cache"
	"eduadmin/internal/client"
	"eduadmin/internal/domain"
	"eduadmin/internal/listing"
)

type DashboardHandler struct {
	api       *client.Client
	dashboard *cache.Dashboard
}

func NewDashboardHandler(api *client.Client, dashboard *cache.Dashboard) *DashboardHandler {
	return &DashboardHandler{api: api, dashboard: dashboard}
}

// GET /api/dashboard
// Serves the cached snapshot while it is fresh; otherwise fans out to
// the upstream collections, rebuilds it, and restarts the TTL.
func (h *DashboardHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	if snap, ok, err := h.dashboard.Get(ctx); err == nil && ok {
		c.JSON(http.StatusOK, snap)
		return
	} else if err != nil {
		log.Printf("dashboard cache read failed: %v", err)
	}

	var (
		courses []domain.Course
		jobs    []domain.Job
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = h.api.Courses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		jobs, err = h.api.Jobs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		upstreamError(c, err)
		return
	}

	snap := &cache.Snapshot{
		Stats: cache.Stats{
			Courses: len(courses),
			Jobs:    len(jobs),
			// TODO: needs an aggregate applications endpoint upstream;
			// per-job application lists are the only source today.
			Applications: 0,
		},
		RecentCourses: listing.RecentCourses(courses, 3),
		RecentJobs:    listing.RecentJobs(jobs, 3),
	}
	if err := h.dashboard.Put(ctx, snap); err != nil {
		// Serve the fresh data anyway; only the cache write failed.
		log.Printf("dashboard cache write failed: %v", err)
	}
	c.JSON(http.StatusOK, snap)
}
