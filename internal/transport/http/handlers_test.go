package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"eduadmin/internal/cache"
	"eduadmin/internal/client"
	"eduadmin/internal/config"
	"eduadmin/internal/domain"
	"eduadmin/internal/middleware"
	"eduadmin/internal/redistest"
	"eduadmin/internal/session"
	handlers "eduadmin/internal/transport/http"
	"eduadmin/internal/wizard"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// platform is an in-memory stand-in for the upstream API, serving the
// endpoints the gateway proxies to and counting collection fetches so
// tests can prove when the cache short-circuited them.
type platform struct {
	mux    *http.ServeMux
	nextID int64

	courses []domain.Course
	modules []domain.Module
	lessons []domain.Lesson
	jobs    []domain.Job
	apps    []domain.Application

	courseListHits int
	jobListHits    int
	createHits     int

	// brokenCourseList makes the course collection endpoint answer 200
	// with a body that is not JSON.
	brokenCourseList bool

	loginToken string
}

func newPlatform() *platform {
	p := &platform{mux: http.NewServeMux(), nextID: 100}

	p.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "correct-horse" {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		reply(w, http.StatusOK, map[string]string{"token": p.loginToken})
	})

	p.mux.HandleFunc("GET /api/courses", func(w http.ResponseWriter, r *http.Request) {
		p.courseListHits++
		if p.brokenCourseList {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("<html>maintenance</html>"))
			return
		}
		reply(w, http.StatusOK, p.courses)
	})
	p.mux.HandleFunc("POST /api/courses", func(w http.ResponseWriter, r *http.Request) {
		p.createHits++
		var in client.CourseInput
		json.NewDecoder(r.Body).Decode(&in)
		p.nextID++
		course := domain.Course{ID: p.nextID, Title: in.Title, Price: in.Price, CreatedAt: time.Now()}
		p.courses = append(p.courses, course)
		reply(w, http.StatusCreated, course)
	})
	p.mux.HandleFunc("GET /api/courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for _, c := range p.courses {
			if c.ID == id {
				reply(w, http.StatusOK, c)
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Course not found"})
	})

	p.mux.HandleFunc("GET /api/modules/course/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		out := []domain.Module{}
		for _, m := range p.modules {
			if m.CourseID == id {
				out = append(out, m)
			}
		}
		reply(w, http.StatusOK, out)
	})
	p.mux.HandleFunc("POST /api/modules", func(w http.ResponseWriter, r *http.Request) {
		var in client.ModuleInput
		json.NewDecoder(r.Body).Decode(&in)
		p.nextID++
		module := domain.Module{ID: p.nextID, CourseID: in.CourseID, Title: in.Title, ModuleOrder: in.ModuleOrder}
		p.modules = append(p.modules, module)
		reply(w, http.StatusCreated, module)
	})
	p.mux.HandleFunc("GET /api/modules/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for _, m := range p.modules {
			if m.ID == id {
				reply(w, http.StatusOK, m)
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Module not found"})
	})
	p.mux.HandleFunc("PUT /api/modules/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var in client.ModuleInput
		json.NewDecoder(r.Body).Decode(&in)
		for i, m := range p.modules {
			if m.ID == id {
				p.modules[i].Title = in.Title
				p.modules[i].ModuleOrder = in.ModuleOrder
				reply(w, http.StatusOK, p.modules[i])
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Module not found"})
	})
	p.mux.HandleFunc("DELETE /api/modules/{id}", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]bool{"success": true})
	})

	p.mux.HandleFunc("POST /api/lessons", func(w http.ResponseWriter, r *http.Request) {
		var in client.LessonInput
		json.NewDecoder(r.Body).Decode(&in)
		p.nextID++
		lesson := domain.Lesson{ID: p.nextID, ModuleID: in.ModuleID, Title: in.Title, LessonOrder: in.LessonOrder}
		p.lessons = append(p.lessons, lesson)
		reply(w, http.StatusCreated, lesson)
	})
	p.mux.HandleFunc("GET /api/lessons/module/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		out := []domain.Lesson{}
		for _, l := range p.lessons {
			if l.ModuleID == id {
				out = append(out, l)
			}
		}
		reply(w, http.StatusOK, out)
	})
	p.mux.HandleFunc("GET /api/lessons/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for _, l := range p.lessons {
			if l.ID == id {
				reply(w, http.StatusOK, l)
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Lesson not found"})
	})
	p.mux.HandleFunc("PUT /api/lessons/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var in client.LessonInput
		json.NewDecoder(r.Body).Decode(&in)
		for i, l := range p.lessons {
			if l.ID == id {
				p.lessons[i].Title = in.Title
				p.lessons[i].ModuleID = in.ModuleID
				p.lessons[i].LessonOrder = in.LessonOrder
				reply(w, http.StatusOK, p.lessons[i])
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Lesson not found"})
	})
	p.mux.HandleFunc("DELETE /api/lessons/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for i, l := range p.lessons {
			if l.ID == id {
				p.lessons = append(p.lessons[:i], p.lessons[i+1:]...)
				break
			}
		}
		reply(w, http.StatusOK, map[string]bool{"success": true})
	})

	p.mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		p.jobListHits++
		reply(w, http.StatusOK, p.jobs)
	})
	// "GET /api/jobs/course/{id}" and "GET /api/jobs/{id}/applications"
	// conflict under ServeMux pattern rules, so both are served from one
	// registration that dispatches on the path segments.
	p.mux.HandleFunc("GET /api/jobs/{a}/{b}", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.PathValue("a") == "course":
			reply(w, http.StatusOK, p.jobs)
		case r.PathValue("b") == "applications":
			reply(w, http.StatusOK, p.apps)
		default:
			http.NotFound(w, r)
		}
	})
	p.mux.HandleFunc("POST /api/jobs/{id}/map-course", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]bool{"success": true})
	})

	return p
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// env is a fully wired gateway in front of the fake platform.
type env struct {
	router   *gin.Engine
	platform *platform
	sessions *session.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()

	p := newPlatform()
	p.loginToken = signedToken(t, "admin")
	upstream := httptest.NewServer(p.mux)
	t.Cleanup(upstream.Close)

	cfg := config.Config{
		UploadCloudName:    "demo-cloud",
		UploadPreset:       "lesson-videos",
		UploadMaxFileBytes: 15_000_000,
	}
	api := client.New(upstream.URL, 5*time.Second)
	sessions := session.NewStore(redistest.New(), time.Hour)
	h := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(api, sessions),
		Courses:   handlers.NewCourseHandler(api, cache.NewPrefs(redistest.New())),
		Wizard:    handlers.NewWizardHandler(wizard.NewManager(redistest.New(), api)),
		Jobs:      handlers.NewJobHandler(api),
		Dashboard: handlers.NewDashboardHandler(api, cache.NewDashboard(redistest.New())),
		Uploads:   handlers.NewUploadsHandler(cfg),
	}
	limiter := middleware.NewRateLimiter(redistest.New())

	return &env{
		router:   handlers.NewRouter(cfg, h, limiter, sessions),
		platform: p,
		sessions: sessions,
	}
}

func (e *env) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	id, err := e.sessions.Create(context.Background(), "upstream-token", session.RoleAdmin)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookie, Value: id}
}

func (e *env) request(method, path string, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var payload *strings.Reader
	if body == "" {
		payload = strings.NewReader("")
	} else {
		payload = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func signedToken(t *testing.T, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": role, "sub": "42"})
	signed, err := tok.SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestLoginCreatesSessionWithDecodedRole(t *testing.T) {
	e := newEnv(t)

	w := e.request(http.MethodPost, "/api/auth/login",
		`{"email":"admin@example.com","password":"correct-horse"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}

	var body struct {
		Token string `json:"token"`
		Role  string `json:"role"`
		Admin bool   `json:"admin"`
	}
	decode(t, w, &body)
	if body.Role != "admin" || !body.Admin {
		t.Fatalf("login body = %+v", body)
	}

	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("login set no session cookie")
	}

	// The cookie now opens the admin surface.
	w = e.request(http.MethodGet, "/api/auth/session", "", sessionCookie)
	if w.Code != http.StatusOK {
		t.Fatalf("session check: %d", w.Code)
	}
}

func TestLoginRejectedUpstreamPassesThrough(t *testing.T) {
	e := newEnv(t)

	w := e.request(http.MethodPost, "/api/auth/login",
		`{"email":"admin@example.com","password":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	if body.Error != "Invalid credentials" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestLoginValidationAnsweredLocally(t *testing.T) {
	e := newEnv(t)

	w := e.request(http.MethodPost, "/api/auth/login", `{"email":"not-an-email","password":"x"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	w := e.request(http.MethodPost, "/api/auth/logout", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}

	w = e.request(http.MethodGet, "/api/dashboard", "", ck)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: %d, want 401", w.Code)
	}
}

func TestAdminSurfaceRequiresSession(t *testing.T) {
	e := newEnv(t)

	w := e.request(http.MethodGet, "/api/dashboard", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var body struct {
		Redirect string `json:"redirect"`
	}
	decode(t, w, &body)
	if body.Redirect != "/login" {
		t.Fatalf("redirect = %q, want /login", body.Redirect)
	}
}

func TestAdminSurfaceRequiresAdminRole(t *testing.T) {
	e := newEnv(t)
	id, _ := e.sessions.Create(context.Background(), "upstream-token", "user")
	ck := &http.Cookie{Name: middleware.SessionCookie, Value: id}

	w := e.request(http.MethodGet, "/api/courses", "", ck)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCourseValidationNeverReachesUpstream(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	cases := []string{
		`{"title":"Go","description":"A course long enough to pass validation","price":10,"duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`,
		`{"title":"Go Fundamentals","description":"too short","price":10,"duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`,
		`{"title":"Go Fundamentals","description":"A course long enough to pass validation","price":-1,"duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`,
		`{"title":"Go Fundamentals","description":"A course long enough to pass validation","duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`,
		`{"title":"Go Fundamentals","description":"A course long enough to pass validation","price":10,"discount":150,"duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`,
		`{"title":"Go Fundamentals","description":"A course long enough to pass validation","price":10,"duration":"6 weeks","category":"Programming","language":"English","image_url":"not a url"}`,
	}
	for _, body := range cases {
		if w := e.request(http.MethodPost, "/api/courses", body, ck); w.Code != http.StatusBadRequest {
			t.Errorf("payload %s: status %d, want 400", body, w.Code)
		}
	}
	if e.platform.createHits != 0 {
		t.Fatalf("invalid payloads reached upstream %d times", e.platform.createHits)
	}
}

func TestCourseCreateFreeCourseAllowed(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	body := `{"title":"Go Fundamentals","description":"A course long enough to pass validation","price":0,"duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`
	w := e.request(http.MethodPost, "/api/courses", body, ck)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var course domain.Course
	decode(t, w, &course)
	if course.ID == 0 {
		t.Fatal("no server-assigned id in response")
	}
}

func TestCourseListPersistsAndRestoresFilters(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)
	e.platform.courses = []domain.Course{
		{ID: 1, Title: "Go Fundamentals", Price: 49},
		{ID: 2, Title: "React Deep Dive", Price: 99},
		{ID: 3, Title: "Free React Intro", Price: 0},
	}

	var body struct {
		Courses []domain.Course `json:"courses"`
		Filters struct {
			Search string `json:"search"`
			Price  string `json:"price"`
			Sort   string `json:"sort"`
		} `json:"filters"`
	}

	w := e.request(http.MethodGet, "/api/courses?search=react&price=paid&sort=price-low", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("filtered list: %d", w.Code)
	}
	decode(t, w, &body)
	if len(body.Courses) != 1 || body.Courses[0].ID != 2 {
		t.Fatalf("filtered courses = %+v", body.Courses)
	}

	// A bare request restores the saved settings.
	w = e.request(http.MethodGet, "/api/courses", "", ck)
	decode(t, w, &body)
	if body.Filters.Search != "react" || body.Filters.Price != "paid" || body.Filters.Sort != "price-low" {
		t.Fatalf("restored filters = %+v", body.Filters)
	}
	if len(body.Courses) != 1 || body.Courses[0].ID != 2 {
		t.Fatalf("restored list = %+v", body.Courses)
	}
}

func TestCourseFiltersScopedPerSession(t *testing.T) {
	e := newEnv(t)
	first := e.adminCookie(t)
	second := e.adminCookie(t)

	e.request(http.MethodGet, "/api/courses?search=react", "", first)

	var body struct {
		Filters struct {
			Search string `json:"search"`
		} `json:"filters"`
	}
	w := e.request(http.MethodGet, "/api/courses", "", second)
	decode(t, w, &body)
	if body.Filters.Search != "" {
		t.Fatalf("second session inherited search %q", body.Filters.Search)
	}
}

func TestCourseDetailBundlesModules(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)
	e.platform.courses = []domain.Course{{ID: 7, Title: "Go Fundamentals"}}
	e.platform.modules = []domain.Module{
		{ID: 70, CourseID: 7, Title: "Basics", ModuleOrder: 1},
		{ID: 71, CourseID: 8, Title: "Elsewhere", ModuleOrder: 1},
	}

	w := e.request(http.MethodGet, "/api/courses/7", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Course  domain.Course   `json:"course"`
		Modules []domain.Module `json:"modules"`
	}
	decode(t, w, &body)
	if body.Course.ID != 7 {
		t.Fatalf("course = %+v", body.Course)
	}
	if len(body.Modules) != 1 || body.Modules[0].ID != 70 {
		t.Fatalf("modules = %+v", body.Modules)
	}
}

func TestCourseDetailUpstream404PassesThrough(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	w := e.request(http.MethodGet, "/api/courses/999", "", ck)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	if body.Error != "Course not found" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestCourseInvalidPathID(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	for _, path := range []string{"/api/courses/abc", "/api/courses/0", "/api/courses/-3"} {
		if w := e.request(http.MethodGet, path, "", ck); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, w.Code)
		}
	}
}

func TestWizardFullFlow(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	w := e.request(http.MethodPost, "/api/wizard", "", ck)
	if w.Code != http.StatusCreated {
		t.Fatalf("start: %d %s", w.Code, w.Body.String())
	}
	var st wizard.State
	decode(t, w, &st)
	if st.Step != wizard.StepCourse {
		t.Fatalf("start step = %d", st.Step)
	}
	base := "/api/wizard/" + st.ID

	// Steps two and three are locked until the course exists.
	if w = e.request(http.MethodPost, base+"/modules", `{"title":"Basics"}`, ck); w.Code != http.StatusConflict {
		t.Fatalf("module before course: %d, want 409", w.Code)
	}
	if w = e.request(http.MethodPost, base+"/advance", "", ck); w.Code != http.StatusConflict {
		t.Fatalf("advance before course: %d, want 409", w.Code)
	}

	courseBody := `{"title":"Intro to Testing","description":"A course long enough to pass validation","price":49,"duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`
	w = e.request(http.MethodPost, base+"/course", courseBody, ck)
	if w.Code != http.StatusOK {
		t.Fatalf("submit course: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &st)
	if st.Step != wizard.StepModules || st.Course == nil || st.Course.ID == 0 {
		t.Fatalf("after course: %+v", st)
	}
	courseID := st.Course.ID

	// No second course for the same wizard.
	if w = e.request(http.MethodPost, base+"/course", courseBody, ck); w.Code != http.StatusConflict {
		t.Fatalf("second course: %d, want 409", w.Code)
	}

	// Advancing with zero modules is refused with a warning.
	w = e.request(http.MethodPost, base+"/advance", "", ck)
	if w.Code != http.StatusConflict {
		t.Fatalf("advance without modules: %d, want 409", w.Code)
	}
	var warn struct {
		Error string `json:"error"`
	}
	decode(t, w, &warn)
	if warn.Error != "Please add at least one module" {
		t.Fatalf("warning = %q", warn.Error)
	}

	w = e.request(http.MethodPost, base+"/modules", `{"title":"Basics"}`, ck)
	if w.Code != http.StatusCreated {
		t.Fatalf("add module: %d %s", w.Code, w.Body.String())
	}
	var modResp struct {
		Module domain.Module `json:"module"`
		Wizard wizard.State  `json:"wizard"`
	}
	decode(t, w, &modResp)
	if modResp.Module.ModuleOrder != 1 {
		t.Fatalf("module order = %d, want 1", modResp.Module.ModuleOrder)
	}
	if modResp.Module.CourseID != courseID {
		t.Fatalf("module created under course %d, want %d", modResp.Module.CourseID, courseID)
	}

	if w = e.request(http.MethodPost, base+"/advance", "", ck); w.Code != http.StatusOK {
		t.Fatalf("advance: %d", w.Code)
	}

	lessonBody := fmt.Sprintf(`{"module_id":%d,"title":"Welcome aboard","video_url":"https://cdn.example.com/v.mp4","duration":"10:00"}`, modResp.Module.ID)
	w = e.request(http.MethodPost, base+"/lessons", lessonBody, ck)
	if w.Code != http.StatusCreated {
		t.Fatalf("add lesson: %d %s", w.Code, w.Body.String())
	}
	var lessonResp struct {
		Lesson domain.Lesson `json:"lesson"`
	}
	decode(t, w, &lessonResp)
	if lessonResp.Lesson.LessonOrder != 1 {
		t.Fatalf("lesson order = %d, want 1", lessonResp.Lesson.LessonOrder)
	}

	w = e.request(http.MethodGet, fmt.Sprintf("%s/modules/%d/lessons", base, modResp.Module.ID), "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("module lessons: %d", w.Code)
	}
	var lessons []domain.Lesson
	decode(t, w, &lessons)
	if len(lessons) != 1 {
		t.Fatalf("lessons = %+v", lessons)
	}

	w = e.request(http.MethodPost, base+"/finish", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("finish: %d %s", w.Code, w.Body.String())
	}
	var fin struct {
		Summary  wizard.Summary `json:"summary"`
		Redirect string         `json:"redirect"`
	}
	decode(t, w, &fin)
	if fin.Summary.Modules != 1 || fin.Summary.Lessons != 1 || fin.Summary.CourseTitle != "Intro to Testing" {
		t.Fatalf("summary = %+v", fin.Summary)
	}
	if want := fmt.Sprintf("/courses/%d", courseID); fin.Redirect != want {
		t.Fatalf("redirect = %q, want %q", fin.Redirect, want)
	}
}

func TestWizardModuleRename(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	var st wizard.State
	decode(t, e.request(http.MethodPost, "/api/wizard", "", ck), &st)
	base := "/api/wizard/" + st.ID

	courseBody := `{"title":"Intro to Testing","description":"A course long enough to pass validation","price":49,"duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`
	e.request(http.MethodPost, base+"/course", courseBody, ck)

	var modResp struct {
		Module domain.Module `json:"module"`
	}
	decode(t, e.request(http.MethodPost, base+"/modules", `{"title":"Draft title"}`, ck), &modResp)

	w := e.request(http.MethodPut, fmt.Sprintf("%s/modules/%d", base, modResp.Module.ID), `{"title":"Final title"}`, ck)
	if w.Code != http.StatusOK {
		t.Fatalf("rename module: %d %s", w.Code, w.Body.String())
	}
	var renamed struct {
		Module domain.Module `json:"module"`
		Wizard wizard.State  `json:"wizard"`
	}
	decode(t, w, &renamed)
	if renamed.Module.Title != "Final title" {
		t.Fatalf("module = %+v", renamed.Module)
	}
	if renamed.Wizard.Modules[0].Title != "Final title" {
		t.Fatalf("wizard state = %+v", renamed.Wizard.Modules)
	}

	if w = e.request(http.MethodPut, base+"/modules/999", `{"title":"Nope"}`, ck); w.Code != http.StatusNotFound {
		t.Fatalf("rename unknown module: %d, want 404", w.Code)
	}
}

func TestWizardLessonEditAndDelete(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	var st wizard.State
	decode(t, e.request(http.MethodPost, "/api/wizard", "", ck), &st)
	base := "/api/wizard/" + st.ID

	courseBody := `{"title":"Intro to Testing","description":"A course long enough to pass validation","price":49,"duration":"6 weeks","category":"Programming","language":"English","image_url":"https://cdn.example.com/a.png"}`
	e.request(http.MethodPost, base+"/course", courseBody, ck)
	var modResp struct {
		Module domain.Module `json:"module"`
	}
	decode(t, e.request(http.MethodPost, base+"/modules", `{"title":"Basics"}`, ck), &modResp)
	e.request(http.MethodPost, base+"/advance", "", ck)

	lessonBody := fmt.Sprintf(`{"module_id":%d,"title":"First draft","video_url":"https://cdn.example.com/v.mp4","duration":"10:00"}`, modResp.Module.ID)
	var lessonResp struct {
		Lesson domain.Lesson `json:"lesson"`
	}
	decode(t, e.request(http.MethodPost, base+"/lessons", lessonBody, ck), &lessonResp)

	// Edit without naming a module keeps the lesson where it is.
	editBody := `{"title":"Second draft","video_url":"https://cdn.example.com/v2.mp4","duration":"11:00"}`
	w := e.request(http.MethodPut, fmt.Sprintf("%s/lessons/%d", base, lessonResp.Lesson.ID), editBody, ck)
	if w.Code != http.StatusOK {
		t.Fatalf("edit lesson: %d %s", w.Code, w.Body.String())
	}
	var edited struct {
		Lesson domain.Lesson `json:"lesson"`
	}
	decode(t, w, &edited)
	if edited.Lesson.Title != "Second draft" || edited.Lesson.ModuleID != modResp.Module.ID {
		t.Fatalf("edited lesson = %+v", edited.Lesson)
	}

	w = e.request(http.MethodDelete, fmt.Sprintf("%s/lessons/%d", base, lessonResp.Lesson.ID), "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("delete lesson: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &st)
	if len(st.Lessons) != 0 {
		t.Fatalf("lessons after delete = %+v", st.Lessons)
	}

	if w = e.request(http.MethodDelete, base+"/lessons/999", "", ck); w.Code != http.StatusNotFound {
		t.Fatalf("delete unknown lesson: %d, want 404", w.Code)
	}
}

func TestWizardNotVisibleToOtherSessions(t *testing.T) {
	e := newEnv(t)
	owner := e.adminCookie(t)
	other := e.adminCookie(t)

	w := e.request(http.MethodPost, "/api/wizard", "", owner)
	var st wizard.State
	decode(t, w, &st)

	if w = e.request(http.MethodGet, "/api/wizard/"+st.ID, "", other); w.Code != http.StatusNotFound {
		t.Fatalf("foreign wizard read: %d, want 404", w.Code)
	}
}

func TestDashboardCachedForAnHour(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)
	e.platform.courses = []domain.Course{{ID: 1}, {ID: 2}}
	e.platform.jobs = []domain.Job{{ID: 10}}

	w := e.request(http.MethodGet, "/api/dashboard", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", w.Code, w.Body.String())
	}
	var snap cache.Snapshot
	decode(t, w, &snap)
	if snap.Stats.Courses != 2 || snap.Stats.Jobs != 1 {
		t.Fatalf("stats = %+v", snap.Stats)
	}
	if snap.Timestamp.IsZero() {
		t.Fatal("snapshot not timestamped")
	}
	if e.platform.courseListHits != 1 || e.platform.jobListHits != 1 {
		t.Fatalf("first load hit upstream %d/%d times", e.platform.courseListHits, e.platform.jobListHits)
	}

	// Second request inside the TTL is served from the snapshot.
	w = e.request(http.MethodGet, "/api/dashboard", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("cached dashboard: %d", w.Code)
	}
	if e.platform.courseListHits != 1 || e.platform.jobListHits != 1 {
		t.Fatalf("cached load still hit upstream: %d/%d", e.platform.courseListHits, e.platform.jobListHits)
	}
}

func TestModuleAndLessonDetailReads(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)
	e.platform.modules = []domain.Module{{ID: 70, CourseID: 7, Title: "Basics", ModuleOrder: 1}}
	e.platform.lessons = []domain.Lesson{{ID: 700, ModuleID: 70, Title: "Welcome", LessonOrder: 1}}

	var module domain.Module
	w := e.request(http.MethodGet, "/api/modules/70", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("module detail: %d", w.Code)
	}
	decode(t, w, &module)
	if module.Title != "Basics" {
		t.Fatalf("module = %+v", module)
	}

	var lesson domain.Lesson
	w = e.request(http.MethodGet, "/api/lessons/700", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("lesson detail: %d", w.Code)
	}
	decode(t, w, &lesson)
	if lesson.Title != "Welcome" {
		t.Fatalf("lesson = %+v", lesson)
	}

	if w = e.request(http.MethodGet, "/api/lessons/999", "", ck); w.Code != http.StatusNotFound {
		t.Fatalf("unknown lesson: %d, want 404", w.Code)
	}
}

func TestCourseRelatedJobs(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)
	e.platform.jobs = []domain.Job{{ID: 10, Title: "Go Developer"}}

	w := e.request(http.MethodGet, "/api/courses/7/jobs", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("related jobs: %d", w.Code)
	}
	var jobs []domain.Job
	decode(t, w, &jobs)
	if len(jobs) != 1 || jobs[0].ID != 10 {
		t.Fatalf("jobs = %+v", jobs)
	}
}

func TestMalformedUpstreamBodyStaysInternal(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)
	e.platform.brokenCourseList = true

	w := e.request(http.MethodGet, "/api/courses", "", ck)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	if body.Error != "An error occurred" {
		t.Fatalf("error = %q, want the generic message", body.Error)
	}
	if strings.Contains(w.Body.String(), "decode") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}

func TestJobsListFilters(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)
	e.platform.jobs = []domain.Job{
		{ID: 1, Title: "Go Developer", JobType: domain.JobTypeFullTime, Mode: domain.WorkModeRemote},
		{ID: 2, Title: "React Developer", JobType: domain.JobTypeContract, Mode: domain.WorkModeOffice},
	}

	var body struct {
		Jobs []domain.Job `json:"jobs"`
	}
	w := e.request(http.MethodGet, "/api/jobs?job_type=full-time", "", ck)
	decode(t, w, &body)
	if len(body.Jobs) != 1 || body.Jobs[0].ID != 1 {
		t.Fatalf("jobs = %+v", body.Jobs)
	}
}

func TestJobValidationRejectsBadEnums(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	body := `{"title":"Go Developer","company_name":"Acme","location":"Remote","job_type":"gig","mode":"remote","openings":1,"package":"10 LPA","description":"Build services","apply_link":"https://acme.example.com/jobs/1"}`
	if w := e.request(http.MethodPost, "/api/jobs", body, ck); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestJobApplicationsStatusFilter(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)
	e.platform.apps = []domain.Application{
		{ID: 1, JobID: 5, Status: domain.StatusApplied},
		{ID: 2, JobID: 5, Status: domain.StatusHired},
	}

	var apps []domain.Application
	w := e.request(http.MethodGet, "/api/jobs/5/applications?status=hired", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("applications: %d", w.Code)
	}
	decode(t, w, &apps)
	if len(apps) != 1 || apps[0].ID != 2 {
		t.Fatalf("apps = %+v", apps)
	}

	if w = e.request(http.MethodGet, "/api/jobs/5/applications?status=ghosted", "", ck); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: %d, want 400", w.Code)
	}
}

func TestUploadsWidgetConfig(t *testing.T) {
	e := newEnv(t)
	ck := e.adminCookie(t)

	w := e.request(http.MethodGet, "/api/uploads/widget", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		CloudName    string   `json:"cloud_name"`
		UploadPreset string   `json:"upload_preset"`
		Sources      []string `json:"sources"`
		Multiple     bool     `json:"multiple"`
		ResourceType string   `json:"resource_type"`
	}
	decode(t, w, &body)
	if body.CloudName != "demo-cloud" || body.UploadPreset != "lesson-videos" {
		t.Fatalf("widget config = %+v", body)
	}
	if body.Multiple || body.ResourceType != "video" {
		t.Fatalf("widget config = %+v", body)
	}
}

func TestUnmatchedPathsRedirectHome(t *testing.T) {
	e := newEnv(t)

	w := e.request(http.MethodGet, "/definitely/not/a/route", "", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("Location = %q, want /", loc)
	}
}
