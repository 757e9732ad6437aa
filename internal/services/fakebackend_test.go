package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/spreadit-gateway/internal/cache"
	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/session"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// fakeBackend serves the four backend services from one in-memory dataset.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[domain.RecordID]*domain.User
	courses  map[domain.RecordID]*domain.Course
	modules  map[domain.RecordID]*domain.Module
	posts    map[domain.RecordID]*domain.Post
	likes    []domain.Like
	comments []domain.Comment
	nextID   int64

	hits atomic.Int64

	// failures injected per route name ("user", "enroll", "likes", ...)
	fail map[string]int
	// gates hold requests to a route until closed
	gates map[string]*gate

	enrollDelay time.Duration
	inflight    map[string]int
	maxInflight int
	enrollLog   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    map[domain.RecordID]*domain.User{},
		courses:  map[domain.RecordID]*domain.Course{},
		modules:  map[domain.RecordID]*domain.Module{},
		posts:    map[domain.RecordID]*domain.Post{},
		fail:     map[string]int{},
		gates:    map[string]*gate{},
		inflight: map[string]int{},
		nextID:   1000,
	}
}

func (f *fakeBackend) addUser(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.RecordID] = &u
}

func (f *fakeBackend) addCourse(c domain.Course) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses[c.RecordID] = &c
}

func (f *fakeBackend) addModule(m domain.Module) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modules[m.RecordID] = &m
}

func (f *fakeBackend) setFail(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[route] = status
}

type gate struct {
	entered chan struct{}
	release chan struct{}
}

// hold makes requests to route wait until the returned gate is released.
// entered receives once per held request.
func (f *fakeBackend) hold(route string) *gate {
	g := &gate{entered: make(chan struct{}, 16), release: make(chan struct{})}
	f.mu.Lock()
	f.gates[route] = g
	f.mu.Unlock()
	return g
}

func (f *fakeBackend) courseMember(id domain.RecordID, uid domain.BusinessID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courses[id].HasMember(uid)
}

func (f *fakeBackend) likeCount(post domain.RecordID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.likes {
		if l.PostID == post {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func pathID(r *http.Request, name string) domain.RecordID {
	n, _ := strconv.ParseInt(r.PathValue(name), 10, 64)
	return domain.RecordID(n)
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	// route wraps a handler with hit counting and failure injection.
	route := func(name string, h func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.hits.Add(1)
			f.mu.Lock()
			st, g := f.fail[name], f.gates[name]
			f.mu.Unlock()
			if g != nil {
				g.entered <- struct{}{}
				<-g.release
			}
			if st != 0 {
				detail(w, st, name+" unavailable")
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("POST /api/login", route("login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, u := range f.users {
			if u.Email == in.Email && in.Password == "secret1" {
				writeJSON(w, 200, domain.LoginResult{Message: "ok", UserID: u.BusinessID, IsAdmin: u.IsAdmin, AccessToken: "tok-" + u.BusinessID.String(), TokenType: "bearer"})
				return
			}
		}
		detail(w, 401, "Invalid credentials")
	}))
	mux.HandleFunc("POST /api/sign-up", route("signup", func(w http.ResponseWriter, r *http.Request) {
		var u domain.User
		_ = json.NewDecoder(r.Body).Decode(&u)
		f.mu.Lock()
		f.nextID++
		u.RecordID = domain.RecordID(f.nextID)
		u.BusinessID = domain.BusinessID("u-" + u.RecordID.String())
		f.users[u.RecordID] = &u
		f.mu.Unlock()
		writeJSON(w, 201, u)
	}))
	mux.HandleFunc("GET /api/all-users", route("users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []domain.User{}
		for _, u := range f.users {
			out = append(out, *u)
		}
		writeJSON(w, 200, out)
	}))
	mux.HandleFunc("GET /api/user-by-db-id/{id}", route("user", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if u, ok := f.users[pathID(r, "id")]; ok {
			writeJSON(w, 200, u)
			return
		}
		detail(w, 404, "User not found")
	}))
	mux.HandleFunc("GET /api/user-by-userid/{bid}", route("user", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, u := range f.users {
			if u.BusinessID.String() == r.PathValue("bid") {
				writeJSON(w, 200, u)
				return
			}
		}
		detail(w, 404, "User not found")
	}))

	mux.HandleFunc("GET /api/get-all-courses", route("courses", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []domain.Course{}
		for _, c := range f.courses {
			out = append(out, *c)
		}
		writeJSON(w, 200, out)
	}))
	mux.HandleFunc("GET /api/get-course-by-db-id/{id}", route("course", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.courses[pathID(r, "id")]; ok {
			writeJSON(w, 200, c)
			return
		}
		detail(w, 404, "Course not found")
	}))
	mux.HandleFunc("POST /api/add-course", route("course-write", func(w http.ResponseWriter, r *http.Request) {
		var c domain.Course
		_ = json.NewDecoder(r.Body).Decode(&c)
		f.mu.Lock()
		f.nextID++
		c.RecordID = domain.RecordID(f.nextID)
		c.EnrolledUsers = []domain.BusinessID{}
		f.courses[c.RecordID] = &c
		f.mu.Unlock()
		writeJSON(w, 201, c)
	}))
	mux.HandleFunc("DELETE /api/delete-course-by-id/{code}", route("course-write", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for id, c := range f.courses {
			if c.Code.String() == r.PathValue("code") {
				delete(f.courses, id)
				w.WriteHeader(204)
				return
			}
		}
		detail(w, 404, "Course not found")
	}))
	mux.HandleFunc("POST /api/courses/{code}/{verb}/{uid}", route("enroll", func(w http.ResponseWriter, r *http.Request) {
		f.membership(w, r, "course")
	}))

	mux.HandleFunc("GET /api/module", route("modules", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []domain.Module{}
		for _, m := range f.modules {
			if q := r.URL.Query().Get("course_id"); q == "" || m.ParentCourse.String() == q {
				out = append(out, *m)
			}
		}
		writeJSON(w, 200, out)
	}))
	mux.HandleFunc("GET /api/module/{id}", route("module", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if m, ok := f.modules[pathID(r, "id")]; ok {
			writeJSON(w, 200, m)
			return
		}
		detail(w, 404, "Module not found")
	}))
	mux.HandleFunc("POST /api/modules/{code}/{verb}/{uid}", route("enroll", func(w http.ResponseWriter, r *http.Request) {
		f.membership(w, r, "module")
	}))

	mux.HandleFunc("GET /api/likes", route("likes", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, 200, append([]domain.Like{}, f.likes...))
	}))
	mux.HandleFunc("POST /api/likes", route("like-write", func(w http.ResponseWriter, r *http.Request) {
		var l domain.Like
		_ = json.NewDecoder(r.Body).Decode(&l)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, x := range f.likes {
			if x.UserID == l.UserID && x.PostID == l.PostID {
				detail(w, 400, "Post already liked")
				return
			}
		}
		f.nextID++
		l.RecordID = domain.RecordID(f.nextID)
		f.likes = append(f.likes, l)
		writeJSON(w, 201, l)
	}))
	mux.HandleFunc("DELETE /api/likes", route("like-write", func(w http.ResponseWriter, r *http.Request) {
		user, _ := domain.ParseRecordID(r.URL.Query().Get("user_id"))
		post, _ := domain.ParseRecordID(r.URL.Query().Get("post_id"))
		f.mu.Lock()
		defer f.mu.Unlock()
		i := slices.IndexFunc(f.likes, func(l domain.Like) bool { return l.UserID == user && l.PostID == post })
		if i < 0 {
			detail(w, 404, "Like not found")
			return
		}
		f.likes = slices.Delete(f.likes, i, i+1)
		w.WriteHeader(204)
	}))

	mux.HandleFunc("GET /api/comments/{post}", route("comments", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []domain.Comment{}
		for _, c := range f.comments {
			if c.PostID == pathID(r, "post") {
				out = append(out, c)
			}
		}
		writeJSON(w, 200, out)
	}))
	mux.HandleFunc("POST /api/comments", route("comment-write", func(w http.ResponseWriter, r *http.Request) {
		var c domain.Comment
		_ = json.NewDecoder(r.Body).Decode(&c)
		f.mu.Lock()
		f.nextID++
		c.RecordID = domain.RecordID(f.nextID)
		c.CreatedAt = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		f.comments = append(f.comments, c)
		f.mu.Unlock()
		writeJSON(w, 201, c)
	}))
	mux.HandleFunc("DELETE /api/comments/{id}", route("comment-write", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := pathID(r, "id")
		i := slices.IndexFunc(f.comments, func(c domain.Comment) bool { return c.RecordID == id })
		if i < 0 {
			detail(w, 404, "Comment not found")
			return
		}
		f.comments = slices.Delete(f.comments, i, i+1)
		w.WriteHeader(204)
	}))

	mux.HandleFunc("GET /api/post-by-id/{id}", route("post", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if p, ok := f.posts[pathID(r, "id")]; ok {
			writeJSON(w, 200, p)
			return
		}
		detail(w, 404, "Post not found")
	}))
	mux.HandleFunc("GET /api/post-by-user_id/{id}", route("posts", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []domain.Post{}
		for _, p := range f.posts {
			if p.Author == pathID(r, "id") {
				out = append(out, *p)
			}
		}
		writeJSON(w, 200, out)
	}))
	mux.HandleFunc("GET /api/post-by-module_id/{id}", route("posts", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []domain.Post{}
		for _, p := range f.posts {
			if p.ModuleID == pathID(r, "id") {
				out = append(out, *p)
			}
		}
		if len(out) == 0 {
			detail(w, 404, "No posts found")
			return
		}
		writeJSON(w, 200, out)
	}))
	mux.HandleFunc("POST /api/add-post", route("post-write", func(w http.ResponseWriter, r *http.Request) {
		var p domain.Post
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.mu.Lock()
		f.nextID++
		p.RecordID = domain.RecordID(f.nextID)
		f.posts[p.RecordID] = &p
		f.mu.Unlock()
		writeJSON(w, 201, p)
	}))
	mux.HandleFunc("DELETE /api/delete-post-by-id/{id}", route("post-write", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.posts[pathID(r, "id")]; !ok {
			detail(w, 404, "Post not found")
			return
		}
		delete(f.posts, pathID(r, "id"))
		w.WriteHeader(204)
	}))
	return mux
}

// membership mimics the course and module enroll/unenroll routes, including
// their habit of reporting state conflicts as 400 with a detail text.
func (f *fakeBackend) membership(w http.ResponseWriter, r *http.Request, kind string) {
	code, verb, uid := r.PathValue("code"), r.PathValue("verb"), domain.BusinessID(r.PathValue("uid"))
	key := kind + "/" + code + "/" + uid.String()

	f.mu.Lock()
	f.inflight[key]++
	f.maxInflight = max(f.maxInflight, f.inflight[key])
	delay := f.enrollDelay
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inflight[key]--
		f.mu.Unlock()
	}()
	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollLog = append(f.enrollLog, verb+" "+key)

	var members *[]domain.BusinessID
	switch kind {
	case "course":
		for _, c := range f.courses {
			if c.Code.String() == code {
				members = &c.EnrolledUsers
			}
		}
	case "module":
		for _, m := range f.modules {
			if m.Code.String() == code {
				members = &m.EnrolledUsers
			}
		}
	}
	if members == nil {
		detail(w, 404, kind+" not found")
		return
	}
	in := slices.Contains(*members, uid)
	switch {
	case verb == "enroll" && in:
		detail(w, 400, "User already enrolled in "+kind)
	case verb == "enroll":
		*members = append(*members, uid)
		writeJSON(w, 200, map[string]string{"message": "enrolled"})
	case verb == "unenroll" && !in:
		detail(w, 400, "User was not enrolled")
	default:
		*members = slices.DeleteFunc(*members, func(b domain.BusinessID) bool { return b == uid })
		writeJSON(w, 200, map[string]string{"message": "unenrolled"})
	}
}

type fixture struct {
	backend    *fakeBackend
	client     *upstream.Client
	store      *cache.Memory[domain.Membership]
	identity   *IdentityResolver
	enrollment *EnrollmentService
	engagement *EngagementService
	sessions   *session.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := newFakeBackend()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	c, err := upstream.New(upstream.BaseURLs{
		upstream.ServiceUser:   srv.URL,
		upstream.ServiceCourse: srv.URL,
		upstream.ServiceModule: srv.URL,
		upstream.ServicePost:   srv.URL,
	}, upstream.WithTimeout(2*time.Second), upstream.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	store := cache.NewMemory[domain.Membership](time.Minute)
	id := NewIdentityResolver(c, zerolog.Nop())
	return &fixture{
		backend:    b,
		client:     c,
		store:      store,
		identity:   id,
		enrollment: NewEnrollmentService(id, store, time.Minute, nil, nil, zerolog.Nop()),
		engagement: NewEngagementService(c, zerolog.Nop()),
		sessions:   session.NewRegistry(),
	}
}

func (fx *fixture) posts() *PostService {
	return &PostService{Client: fx.client, Sessions: fx.sessions, Engagement: fx.engagement, Log: zerolog.Nop()}
}

// seedCampus adds user 1 ("u-1"), course 10 ("CS") and module 20 (code 42).
func (fx *fixture) seedCampus() Caller {
	fx.backend.addUser(domain.User{RecordID: 1, BusinessID: "u-1", Name: "Ada", Email: "ada@example.com", EnrolledModules: []string{}})
	fx.backend.addCourse(domain.Course{RecordID: 10, Code: "CS", Name: "Computing", EnrolledUsers: []domain.BusinessID{}})
	fx.backend.addModule(domain.Module{RecordID: 20, Code: 42, Name: "Algorithms", ParentCourse: "CS", EnrolledUsers: []domain.BusinessID{}})
	return Caller{RecordID: 1, BusinessID: "u-1"}
}
