package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CoursePrefs are the persisted course-list settings. They survive
// across visits: a list request that carries no filter parameters is
// answered with these instead of the defaults.
type CoursePrefs struct {
	Search string `json:"search"`
	Sort   string `json:"sort"`
	Price  string `json:"price"`
}

// Prefs stores per-session list preferences. Entries carry no TTL;
// they live as long as the session namespace they belong to is in use.
type Prefs struct {
	rdb Commands
}

func NewPrefs(rdb Commands) *Prefs {
	return &Prefs{rdb: rdb}
}

func (p *Prefs) LoadCourse(ctx context.Context, sessionID string) (CoursePrefs, bool, error) {
	val, err := p.rdb.Get(ctx, courseKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return CoursePrefs{}, false, nil
	}
	if err != nil {
		return CoursePrefs{}, false, fmt.Errorf("load course prefs: %w", err)
	}
	var prefs CoursePrefs
	if err := json.Unmarshal([]byte(val), &prefs); err != nil {
		return CoursePrefs{}, false, fmt.Errorf("decode course prefs: %w", err)
	}
	return prefs, true, nil
}

func (p *Prefs) SaveCourse(ctx context.Context, sessionID string, prefs CoursePrefs) error {
	buf, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode course prefs: %w", err)
	}
	if err := p.rdb.Set(ctx, courseKey(sessionID), buf, 0).Err(); err != nil {
		return fmt.Errorf("store course prefs: %w", err)
	}
	return nil
}

func courseKey(sessionID string) string { return "prefs:courses:" + sessionID }
