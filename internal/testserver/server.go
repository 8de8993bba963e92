// Package testserver runs an in-process fake coordinator for tests. It
// speaks enough of the REST API for the catalog tree, the job runner and
// the CLI to be exercised end to end.
package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/jobs"
)

// Default credentials accepted by the login endpoint.
const (
	Username = "dremio"
	Password = "dremio123"
	PAT      = "personal-access-token"
)

type job struct {
	sql   string
	polls int
}

// Server is a fake coordinator.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	items    map[string]catalog.Item
	jobs     map[string]*job
	calls    map[string]int
	fixtures map[string]any

	// JobStates is replayed for every job, one entry per status poll; the
	// last entry repeats.
	JobStates []jobs.State
	// JobRows is the result set of every completed job.
	JobRows []map[string]any
}

// New starts a server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		items:     map[string]catalog.Item{},
		jobs:      map[string]*job{},
		calls:     map[string]int{},
		fixtures:  map[string]any{},
		JobStates: []jobs.State{jobs.StateCompleted},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)
	r.Post("/apiv2/login", s.login)
	r.Route("/api/v3", func(r chi.Router) {
		r.Use(s.authorize)
		r.Get("/catalog", s.listCatalog)
		r.Post("/catalog", s.createItem)
		r.Get("/catalog/by-path/*", s.itemByPath)
		r.Get("/catalog/{id}", s.itemByID)
		r.Put("/catalog/{id}", s.updateItem)
		r.Delete("/catalog/{id}", s.deleteItem)
		r.Get("/catalog/{id}/collaboration/wiki", s.wiki)
		r.Get("/catalog/{id}/collaboration/tag", s.tags)
		r.Post("/sql", s.submit)
		r.Get("/job/{id}", s.jobStatus)
		r.Get("/job/{id}/results", s.jobResults)
		r.Get("/*", s.fixture)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Token returns the session token issued by the last login.
func (s *Server) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Calls returns how often "METHOD /route/pattern" was served.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// SetFixture serves body as JSON for GET /api/v3<endpoint>.
func (s *Server) SetFixture(endpoint string, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[endpoint] = body
}

// AddItem registers a catalog entity and returns its id. Children are
// derived from paths, so only the entity itself is stored.
func (s *Server) AddItem(item catalog.Item) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Tag == "" {
		item.Tag = "0"
	}
	item.Children = nil
	s.items[item.ID] = item
	return item.ID
}

// Item returns a stored entity.
func (s *Server) Item(id string) (catalog.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		s.mu.Lock()
		s.calls[r.Method+" "+pattern]++
		s.mu.Unlock()
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		s.mu.Lock()
		ok := header == "Bearer "+PAT || (s.token != "" && header == "_dremio"+s.token)
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserName != Username || req.Password != Password {
		writeError(w, http.StatusUnauthorized, "Login failed")
		return
	}
	s.mu.Lock()
	s.token = uuid.NewString()
	token := s.token
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "userName": req.UserName})
}

// summary is the listing form of an entity as it appears in a parent's
// children or in the root listing.
func summary(item catalog.Item) catalog.Item {
	out := catalog.Item{ID: item.ID, Tag: item.Tag, Path: item.Path}
	switch item.EntityType {
	case "source", "space", "home", "folder":
		out.Type = catalog.TypeContainer
		out.ContainerType = strings.ToUpper(item.EntityType)
	case "dataset":
		out.Type = catalog.TypeDataset
		out.DatasetType = "PROMOTED"
		if item.SQL != nil {
			out.DatasetType = "VIRTUAL"
			out.SQL = item.SQL
		}
	case "file":
		out.Type = catalog.TypeFile
	}
	return out
}

// withChildrenLocked attaches the summaries of direct descendants.
func (s *Server) withChildrenLocked(item catalog.Item) catalog.Item {
	depth := len(item.Path)
	var children []catalog.Item
	for _, other := range s.items {
		if len(other.Path) == depth+1 && slices.Equal(other.Path[:depth], item.Path) {
			children = append(children, summary(other))
		}
	}
	slices.SortFunc(children, func(a, b catalog.Item) int {
		return strings.Compare(strings.Join(a.Path, "/"), strings.Join(b.Path, "/"))
	})
	item.Children = children
	return item
}

func (s *Server) listCatalog(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	var top []catalog.Item
	for _, item := range s.items {
		if len(item.Path) == 1 {
			top = append(top, summary(item))
		}
	}
	s.mu.Unlock()
	slices.SortFunc(top, func(a, b catalog.Item) int { return strings.Compare(a.Path[0], b.Path[0]) })
	writeJSON(w, http.StatusOK, map[string]any{"data": top})
}

func (s *Server) itemByID(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "no entity with id")
		return
	}
	writeJSON(w, http.StatusOK, s.withChildrenLocked(item))
}

func (s *Server) itemByPath(w http.ResponseWriter, r *http.Request) {
	path := strings.Split(strings.Trim(chi.URLParam(r, "*"), "/"), "/")
	for i, seg := range path {
		if unescaped, err := url.PathUnescape(seg); err == nil {
			path[i] = unescaped
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if slices.Equal(item.Path, path) {
			writeJSON(w, http.StatusOK, s.withChildrenLocked(item))
			return
		}
	}
	writeError(w, http.StatusNotFound, "no entity at path")
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var item catalog.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if item.ID != "" || item.Tag != "" {
		writeError(w, http.StatusBadRequest, "id and tag must not be set on create")
		return
	}
	if item.EntityType == "" || len(item.Path) == 0 && item.Name == "" {
		writeError(w, http.StatusBadRequest, "entityType and path are required")
		return
	}
	if len(item.Path) == 0 {
		item.Path = []string{item.Name}
	}
	item.ID = uuid.NewString()
	item.Tag = "1"
	item.CreatedAt = "2024-01-01T00:00:00.000Z"
	s.mu.Lock()
	s.items[item.ID] = item
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var item catalog.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[id]
	if !ok {
		writeError(w, http.StatusNotFound, "no entity with id")
		return
	}
	if item.Tag != cur.Tag {
		writeError(w, http.StatusConflict, "tag mismatch")
		return
	}
	item.ID = id
	item.Tag = bumpTag(cur.Tag)
	item.Children = nil
	s.items[id] = item
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[id]
	if !ok {
		writeError(w, http.StatusNotFound, "no entity with id")
		return
	}
	if tag := r.URL.Query().Get("tag"); tag != "" && tag != cur.Tag {
		writeError(w, http.StatusConflict, "tag mismatch")
		return
	}
	delete(s.items, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) wiki(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.Item(id); !ok {
		writeError(w, http.StatusNotFound, "no entity with id")
		return
	}
	writeJSON(w, http.StatusOK, catalog.Wiki{Text: "# " + id, Version: 0})
}

func (s *Server) tags(w http.ResponseWriter, r *http.Request) {
	item, ok := s.Item(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no entity with id")
		return
	}
	if !strings.HasPrefix(item.EntityType, "dataset") {
		writeError(w, http.StatusBadRequest, "tags are only supported on datasets")
		return
	}
	writeJSON(w, http.StatusOK, catalog.Tags{Tags: []string{"test"}, Version: "0"})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SQL string `json:"sql"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SQL == "" {
		writeError(w, http.StatusBadRequest, "sql is required")
		return
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.jobs[id] = &job{sql: req.SQL}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) jobStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "no job")
		return
	}
	state := s.JobStates[min(j.polls, len(s.JobStates)-1)]
	j.polls++
	st := jobs.Status{JobState: state}
	switch state {
	case jobs.StateCompleted:
		st.RowCount = len(s.JobRows)
	case jobs.StateFailed:
		st.ErrorMessage = "query failed: " + j.sql
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) jobResults(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[chi.URLParam(r, "id")]; !ok {
		writeError(w, http.StatusNotFound, "no job")
		return
	}
	end := min(offset+limit, len(s.JobRows))
	rows := []map[string]any{}
	if offset < end {
		rows = s.JobRows[offset:end]
	}
	writeJSON(w, http.StatusOK, jobs.Page{RowCount: len(s.JobRows), Rows: rows})
}

func (s *Server) fixture(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, ok := s.fixtures[strings.TrimPrefix(r.URL.Path, "/api/v3")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no fixture")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func bumpTag(tag string) string {
	n, err := strconv.Atoi(tag)
	if err != nil {
		return tag + "1"
	}
	return strconv.Itoa(n + 1)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"errorMessage": msg})
}
