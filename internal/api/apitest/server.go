// Package apitest provides an in-memory fake of the riskdesk REST service for
// tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/testutil"
)

// Failure is a canned error response.
type Failure struct {
	Status int
	Body   string
}

// Server is a fake backend. Mutate its exported fields only through the
// helper methods once the server is running.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	profiles  []models.Profile
	topics    []models.Topic
	companies []models.Company
	names     map[string][]string
	failures  map[string]Failure
	gates     map[string]chan struct{}
	requests  []string
	created   []map[string]interface{}
	nextID    int
}

// NewServer starts a fake backend rooted at /api and registers cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	testutil.SkipIfNoNetwork(t)
	s := &Server{
		names:    make(map[string][]string),
		failures: make(map[string]Failure),
		gates:    make(map[string]chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/profiles", s.listProfiles)
	mux.HandleFunc("POST /api/profiles", s.createProfile)
	mux.HandleFunc("GET /api/profiles/{id}/teams", s.listProfileTopics)
	mux.HandleFunc("POST /api/profiles/{id}/select", s.ack)
	mux.HandleFunc("GET /api/teams", s.listTopics)
	mux.HandleFunc("POST /api/teams", s.createTopic)
	mux.HandleFunc("GET /api/teams/{id}", s.getTopic)
	mux.HandleFunc("GET /api/teams/{id}/pokemon-names", s.topicNames)
	mux.HandleFunc("POST /api/teams/{id}/select", s.ack)
	mux.HandleFunc("GET /api/pokemon", s.listCompanies)
	mux.HandleFunc("POST /api/pokemon/{id}/select", s.ack)

	s.Server = httptest.NewServer(s.intercept(mux))
	t.Cleanup(func() {
		s.mu.Lock()
		for key, gate := range s.gates {
			close(gate)
			delete(s.gates, key)
		}
		s.mu.Unlock()
		s.Server.Close()
	})
	return s
}

// BaseURL is the API root to hand to api.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// AddProfiles seeds profiles.
func (s *Server) AddProfiles(profiles ...models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, profiles...)
}

// AddTopics seeds topics.
func (s *Server) AddTopics(topics ...models.Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topics...)
}

// AddCompanies seeds companies.
func (s *Server) AddCompanies(companies ...models.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = append(s.companies, companies...)
}

// SetCompanyNames sets the names returned for a topic.
func (s *Server) SetCompanyNames(topicID string, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[topicID] = append([]string(nil), names...)
}

// Fail makes every request matching "METHOD /path" (path without /api)
// return the failure.
func (s *Server) Fail(route string, failure Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure
}

// Hold blocks requests matching route until the returned release func is
// called.
func (s *Server) Hold(route string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gates[route] = gate
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gates[route] == gate {
			delete(s.gates, route)
			close(gate)
		}
	}
}

// Requests returns "METHOD /path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// CountRequests counts served requests matching route.
func (s *Server) CountRequests(route string) int {
	count := 0
	for _, r := range s.Requests() {
		if r == route {
			count++
		}
	}
	return count
}

// CreatedPayloads returns the decoded bodies of POST /teams requests.
func (s *Server) CreatedPayloads() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.created...)
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")

		s.mu.Lock()
		s.requests = append(s.requests, route)
		failure, failing := s.failures[route]
		gate := s.gates[route]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failure.Status)
			_, _ = w.Write([]byte(failure.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func profileWire(p models.Profile) map[string]interface{} {
	return map[string]interface{}{
		"id":            p.ID,
		"name":          p.Name,
		"persistent":    p.Persistent,
		"selectedCount": p.SelectedCount,
		"createdAt":     p.CreatedAt.Format(time.RFC3339),
	}
}

func topicWire(t models.Topic) map[string]interface{} {
	return map[string]interface{}{
		"id":            t.ID,
		"name":          t.Name,
		"profileId":     t.ProfileID,
		"selectedCount": t.SelectedCount,
		"createdAt":     t.CreatedAt.Format(time.RFC3339),
	}
}

func companyWire(c models.Company) map[string]interface{} {
	docs := make([]map[string]interface{}, 0, len(c.Documents))
	for _, d := range c.Documents {
		docs = append(docs, map[string]interface{}{"id": d.ID, "name": d.Name, "url": d.URL})
	}
	return map[string]interface{}{
		"id":            c.ID,
		"name":          c.Name,
		"urls":          c.URLs,
		"documents":     docs,
		"selectedCount": c.SelectedCount,
	}
}

func (s *Server) listProfiles(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]map[string]interface{}, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, profileWire(p))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "name is required"})
		return
	}
	s.mu.Lock()
	s.nextID++
	p := models.Profile{ID: fmt.Sprintf("p-%d", s.nextID), Name: req.Name, CreatedAt: time.Now().UTC()}
	s.profiles = append(s.profiles, p)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, profileWire(p))
}

func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]map[string]interface{}, 0, len(s.topics))
	for _, t := range s.topics {
		out = append(out, topicWire(t))
	}
	s.mu.Unlock()
	if n := r.URL.Query().Get("topN"); n != "" {
		var limit int
		if _, err := fmt.Sscanf(n, "%d", &limit); err == nil && limit < len(out) {
			out = out[:limit]
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listProfileTopics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	out := make([]map[string]interface{}, 0)
	for _, t := range s.topics {
		if t.ProfileID == id {
			out = append(out, topicWire(t))
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTopic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.topics {
		if t.ID == id {
			writeJSON(w, http.StatusOK, topicWire(t))
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Topic not found"})
}

func (s *Server) createTopic(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	name, _ := raw["name"].(string)
	profileID, _ := raw["profileId"].(string)
	if strings.TrimSpace(name) == "" || profileID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "name and profileId are required"})
		return
	}
	s.mu.Lock()
	s.created = append(s.created, raw)
	s.nextID++
	t := models.Topic{ID: fmt.Sprintf("t-%d", s.nextID), Name: name, ProfileID: profileID, CreatedAt: time.Now().UTC()}
	s.topics = append(s.topics, t)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, topicWire(t))
}

func (s *Server) topicNames(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	names, ok := s.names[id]
	s.mu.Unlock()
	if !ok {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pokemonNames": names})
}

func (s *Server) listCompanies(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]map[string]interface{}, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, companyWire(c))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ack(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
