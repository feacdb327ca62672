// Package wizard drives the three-step course creation flow:
// course details, then modules, then lessons. Steps unlock strictly in
// order, and the state is only ever rebuilt from confirmed upstream
// responses; a failed call leaves it exactly as it was, so there is
// never anything to roll back.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"eduadmin/internal/client"
	"eduadmin/internal/domain"
)

// Steps of the flow, in the only order they can be visited.
const (
	StepCourse  = 1
	StepModules = 2
	StepLessons = 3
)

var (
	ErrNotFound      = errors.New("wizard not found")
	ErrStepLocked    = errors.New("step not yet unlocked")
	ErrCourseCreated = errors.New("course already created for this wizard")
	ErrNoModules     = errors.New("add at least one module before continuing")
	ErrUnknownModule = errors.New("module does not belong to this wizard")
	ErrUnknownLesson = errors.New("lesson does not belong to this wizard")
)

// stateTTL bounds how long an abandoned wizard lingers in redis.
const stateTTL = 24 * time.Hour

// State is everything confirmed so far for one wizard run.
type State struct {
	ID      string          `json:"id"`
	Step    int             `json:"step"`
	Course  *domain.Course  `json:"course,omitempty"`
	Modules []domain.Module `json:"modules"`
	Lessons []domain.Lesson `json:"lessons"`
}

// Summary is the confirmation shown before the final publish.
type Summary struct {
	CourseID    int64  `json:"course_id"`
	CourseTitle string `json:"course_title"`
	Modules     int    `json:"modules"`
	Lessons     int    `json:"lessons"`
}

// Upstream is the slice of the platform client the wizard drives.
type Upstream interface {
	CreateCourse(ctx context.Context, in client.CourseInput) (*domain.Course, error)
	CreateModule(ctx context.Context, in client.ModuleInput) (*domain.Module, error)
	UpdateModule(ctx context.Context, id int64, in client.ModuleInput) (*domain.Module, error)
	DeleteModule(ctx context.Context, id int64) error
	CreateLesson(ctx context.Context, in client.LessonInput) (*domain.Lesson, error)
	UpdateLesson(ctx context.Context, id int64, in client.LessonInput) (*domain.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
	LessonsByModule(ctx context.Context, moduleID int64) ([]domain.Lesson, error)
}

// Commands is the slice of the redis API the manager needs.
type Commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Manager runs wizards. State is persisted per session so one admin's
// half-finished course never leaks into another's.
type Manager struct {
	rdb Commands
	api Upstream
}

func NewManager(rdb Commands, api Upstream) *Manager {
	return &Manager{rdb: rdb, api: api}
}

// Start opens a fresh wizard at step one.
func (m *Manager) Start(ctx context.Context, sessionID string) (*State, error) {
	st := &State{
		ID:      uuid.NewString(),
		Step:    StepCourse,
		Modules: []domain.Module{},
		Lessons: []domain.Lesson{},
	}
	if err := m.save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Get loads a wizard owned by the given session.
func (m *Manager) Get(ctx context.Context, sessionID, id string) (*State, error) {
	val, err := m.rdb.Get(ctx, stateKey(sessionID, id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load wizard state: %w", err)
	}
	var st State
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, fmt.Errorf("decode wizard state: %w", err)
	}
	return &st, nil
}

// SubmitCourse runs step one: create the course upstream and, on
// success, carry the server-assigned record forward and unlock the
// modules step. A course can only be created once per wizard.
func (m *Manager) SubmitCourse(ctx context.Context, sessionID string, st *State, in client.CourseInput) error {
	if st.Course != nil {
		return ErrCourseCreated
	}
	course, err := m.api.CreateCourse(ctx, in)
	if err != nil {
		return err
	}
	st.Course = course
	st.Step = StepModules
	return m.save(ctx, sessionID, st)
}

// AddModule creates a module for the wizard's course. The order
// defaults to one past the current module count.
func (m *Manager) AddModule(ctx context.Context, sessionID string, st *State, title string, order int) (*domain.Module, error) {
	if st.Course == nil || st.Step < StepModules {
		return nil, ErrStepLocked
	}
	if order < 1 {
		order = len(st.Modules) + 1
	}
	module, err := m.api.CreateModule(ctx, client.ModuleInput{
		CourseID:    st.Course.ID,
		Title:       title,
		ModuleOrder: order,
	})
	if err != nil {
		return nil, err
	}
	st.Modules = append(st.Modules, *module)
	sort.SliceStable(st.Modules, func(i, j int) bool {
		return st.Modules[i].ModuleOrder < st.Modules[j].ModuleOrder
	})
	if err := m.save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return module, nil
}

// UpdateModule renames or reorders one of the wizard's modules. A zero
// order keeps the module where it is.
func (m *Manager) UpdateModule(ctx context.Context, sessionID string, st *State, moduleID int64, title string, order int) (*domain.Module, error) {
	idx := st.moduleIndex(moduleID)
	if idx < 0 {
		return nil, ErrUnknownModule
	}
	if order < 1 {
		order = st.Modules[idx].ModuleOrder
	}
	module, err := m.api.UpdateModule(ctx, moduleID, client.ModuleInput{
		CourseID:    st.Course.ID,
		Title:       title,
		ModuleOrder: order,
	})
	if err != nil {
		return nil, err
	}
	st.Modules[idx] = *module
	sort.SliceStable(st.Modules, func(i, j int) bool {
		return st.Modules[i].ModuleOrder < st.Modules[j].ModuleOrder
	})
	if err := m.save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return module, nil
}

// RemoveModule deletes one of the wizard's modules upstream and drops
// it (and its lessons) from the carried state.
func (m *Manager) RemoveModule(ctx context.Context, sessionID string, st *State, moduleID int64) error {
	if !st.ownsModule(moduleID) {
		return ErrUnknownModule
	}
	if err := m.api.DeleteModule(ctx, moduleID); err != nil {
		return err
	}
	modules := st.Modules[:0]
	for _, mod := range st.Modules {
		if mod.ID != moduleID {
			modules = append(modules, mod)
		}
	}
	st.Modules = modules
	lessons := st.Lessons[:0]
	for _, l := range st.Lessons {
		if l.ModuleID != moduleID {
			lessons = append(lessons, l)
		}
	}
	st.Lessons = lessons
	return m.save(ctx, sessionID, st)
}

// AdvanceToLessons unlocks step three. Refused while the module list
// is empty.
func (m *Manager) AdvanceToLessons(ctx context.Context, sessionID string, st *State) error {
	if st.Course == nil || st.Step < StepModules {
		return ErrStepLocked
	}
	if len(st.Modules) == 0 {
		return ErrNoModules
	}
	if st.Step == StepLessons {
		return nil
	}
	st.Step = StepLessons
	return m.save(ctx, sessionID, st)
}

// AddLesson creates a lesson under one of the wizard's modules. The
// order defaults to one past the count of lessons already added to
// that module in this wizard.
func (m *Manager) AddLesson(ctx context.Context, sessionID string, st *State, in client.LessonInput) (*domain.Lesson, error) {
	if st.Step != StepLessons {
		return nil, ErrStepLocked
	}
	if !st.ownsModule(in.ModuleID) {
		return nil, ErrUnknownModule
	}
	if in.LessonOrder < 1 {
		in.LessonOrder = st.lessonCount(in.ModuleID) + 1
	}
	lesson, err := m.api.CreateLesson(ctx, in)
	if err != nil {
		return nil, err
	}
	st.Lessons = append(st.Lessons, *lesson)
	if err := m.save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateLesson edits one of the wizard's lessons. Fields left at their
// zero value keep what the lesson already has; a changed ModuleID moves
// the lesson, and the target must belong to this wizard too.
func (m *Manager) UpdateLesson(ctx context.Context, sessionID string, st *State, lessonID int64, in client.LessonInput) (*domain.Lesson, error) {
	if st.Step != StepLessons {
		return nil, ErrStepLocked
	}
	idx := st.lessonIndex(lessonID)
	if idx < 0 {
		return nil, ErrUnknownLesson
	}
	if in.ModuleID == 0 {
		in.ModuleID = st.Lessons[idx].ModuleID
	}
	if !st.ownsModule(in.ModuleID) {
		return nil, ErrUnknownModule
	}
	if in.LessonOrder < 1 {
		in.LessonOrder = st.Lessons[idx].LessonOrder
	}
	lesson, err := m.api.UpdateLesson(ctx, lessonID, in)
	if err != nil {
		return nil, err
	}
	st.Lessons[idx] = *lesson
	if err := m.save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return lesson, nil
}

// RemoveLesson deletes one of the wizard's lessons upstream and drops
// it from the carried state.
func (m *Manager) RemoveLesson(ctx context.Context, sessionID string, st *State, lessonID int64) error {
	if st.Step != StepLessons {
		return ErrStepLocked
	}
	idx := st.lessonIndex(lessonID)
	if idx < 0 {
		return ErrUnknownLesson
	}
	if err := m.api.DeleteLesson(ctx, lessonID); err != nil {
		return err
	}
	st.Lessons = append(st.Lessons[:idx], st.Lessons[idx+1:]...)
	return m.save(ctx, sessionID, st)
}

// ModuleLessons fetches the current lesson list for one of the
// wizard's modules, fresh from upstream each time the active module
// changes.
func (m *Manager) ModuleLessons(ctx context.Context, st *State, moduleID int64) ([]domain.Lesson, error) {
	if st.Step != StepLessons {
		return nil, ErrStepLocked
	}
	if !st.ownsModule(moduleID) {
		return nil, ErrUnknownModule
	}
	return m.api.LessonsByModule(ctx, moduleID)
}

// Finish produces the confirmation summary. Only available once the
// lessons step has been reached; it performs no upstream call, since
// everything in the state is already confirmed.
func (m *Manager) Finish(st *State) (Summary, error) {
	if st.Step != StepLessons || st.Course == nil {
		return Summary{}, ErrStepLocked
	}
	return Summary{
		CourseID:    st.Course.ID,
		CourseTitle: st.Course.Title,
		Modules:     len(st.Modules),
		Lessons:     len(st.Lessons),
	}, nil
}

func (m *Manager) save(ctx context.Context, sessionID string, st *State) error {
	buf, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode wizard state: %w", err)
	}
	if err := m.rdb.Set(ctx, stateKey(sessionID, st.ID), buf, stateTTL).Err(); err != nil {
		return fmt.Errorf("store wizard state: %w", err)
	}
	return nil
}

func (s *State) ownsModule(moduleID int64) bool {
	return s.moduleIndex(moduleID) >= 0
}

func (s *State) moduleIndex(moduleID int64) int {
	for i, mod := range s.Modules {
		if mod.ID == moduleID {
			return i
		}
	}
	return -1
}

func (s *State) lessonIndex(lessonID int64) int {
	for i, l := range s.Lessons {
		if l.ID == lessonID {
			return i
		}
	}
	return -1
}

func (s *State) lessonCount(moduleID int64) int {
	n := 0
	for _, l := range s.Lessons {
		if l.ModuleID == moduleID {
			n++
		}
	}
	return n
}

func stateKey(sessionID, id string) string {
	return "wizard:" + sessionID + ":" + id
}
