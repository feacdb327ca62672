// Package cache holds the durable key-value state the admin surface
// keeps in redis: the dashboard summary snapshot and per-session list
// filter preferences. Neither entry is invalidated on mutation; a
// course created through the wizard does not bust the cached counts.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"eduadmin/internal/domain"
)

// DashboardTTL is how long a summary snapshot stays valid, matching the
// one-hour client cache this replaces.
const DashboardTTL = time.Hour

const dashboardKey = "dashboard:data"

// Commands is the slice of the redis API this package needs.
type Commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Stats are the collection counts shown on the dashboard.
type Stats struct {
	Courses      int `json:"courses"`
	Jobs         int `json:"jobs"`
	Applications int `json:"applications"`
}

// Snapshot is the cached dashboard payload: counts plus the three most
// recent entries of each collection, stamped at write time.
type Snapshot struct {
	Stats         Stats           `json:"stats"`
	RecentCourses []domain.Course `json:"recent_courses"`
	RecentJobs    []domain.Job    `json:"recent_jobs"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Dashboard serves and refreshes the summary snapshot.
type Dashboard struct {
	rdb Commands
}

func NewDashboard(rdb Commands) *Dashboard {
	return &Dashboard{rdb: rdb}
}

// Get returns the cached snapshot when one is still within its TTL.
func (d *Dashboard) Get(ctx context.Context) (*Snapshot, bool, error) {
	val, err := d.rdb.Get(ctx, dashboardKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load dashboard cache: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}
	return &snap, true, nil
}

// Put overwrites the snapshot and restarts the TTL.
func (d *Dashboard) Put(ctx context.Context, snap *Snapshot) error {
	snap.Timestamp = time.Now()
	buf, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}
	if err := d.rdb.Set(ctx, dashboardKey, buf, DashboardTTL).Err(); err != nil {
		return fmt.Errorf("store dashboard cache: %w", err)
	}
	return nil
}
