// Package agencytest runs an in-memory spy cat agency for tests. It speaks the
// same HTTP contract as the real service and records every request it
// receives so tests can assert on the exact payloads the console sent.
package agencytest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/slogx"
	"github.com/4oBuko/spy-cat-console/pkg/agencyapi"
	"github.com/gin-gonic/gin"
)

// Request is a recorded call to the fake agency.
type Request struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

// injectedFailure answers the next request instead of the handler. An empty
// method matches any request.
type injectedFailure struct {
	method string
	status int
	body   gin.H
}

type Server struct {
	router *gin.Engine

	mu            sync.Mutex
	breeds        []string
	cats          map[int64]models.Cat
	missions      map[int64]models.Mission
	nextCatId     int64
	nextMissionId int64
	nextTargetId  int64
	requests      []Request
	failures      []injectedFailure
	now           func() time.Time
}

func NewServer(breeds ...string) *Server {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:   router,
		breeds:   breeds,
		cats:     map[int64]models.Cat{},
		missions: map[int64]models.Mission{},
		now:      time.Now,
	}
	router.Use(server.record, server.injectFailure)

	router.GET(agencyapi.Endpoints.CatList, server.handleGetAllCats)
	router.GET(agencyapi.Endpoints.ValidBreeds, server.handleValidBreeds)
	router.GET(agencyapi.Endpoints.CatGet, server.handleGetCat)
	router.POST(agencyapi.Endpoints.CatCreate, server.handleAddCat)
	router.PUT(agencyapi.Endpoints.CatUpdate, server.handleUpdateCat)
	router.DELETE(agencyapi.Endpoints.CatDelete, server.handleDeleteCat)

	router.GET(agencyapi.Endpoints.MissionList, server.handleGetAllMissions)
	router.POST(agencyapi.Endpoints.MissionCreate, server.handleAddMission)
	router.PUT(agencyapi.Endpoints.TargetUpdate, server.handleUpdateTarget)
	return server
}

// Start serves the fake agency on a loopback listener until the returned
// server is closed.
func Start(breeds ...string) (*Server, *httptest.Server) {
	server := NewServer(breeds...)
	return server, httptest.NewServer(server.Handler())
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Seed stores cats directly, bypassing breed validation.
func (s *Server) Seed(cats ...models.CatCreate) []models.Cat {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := make([]models.Cat, 0, len(cats))
	for _, c := range cats {
		saved = append(saved, s.insertCat(c))
	}
	return saved
}

// FailNext makes the next request answer with status and a detail body
// instead of reaching its handler. An empty detail sends an empty object.
func (s *Server) FailNext(status int, detail string) {
	s.FailNextOn("", status, detail)
}

// FailNextOn is FailNext restricted to the next request using method.
func (s *Server) FailNextOn(method string, status int, detail string) {
	body := gin.H{}
	if detail != "" {
		body["detail"] = detail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, injectedFailure{method: method, status: status, body: body})
}

func (s *Server) FailNextWith(status int, body gin.H) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, injectedFailure{status: status, body: body})
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// RequestsTo returns recorded requests matching method and path exactly.
func (s *Server) RequestsTo(method, path string) []Request {
	var matched []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			matched = append(matched, r)
		}
	}
	return matched
}

func (s *Server) Cats() []models.Cat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedCats()
}

func (s *Server) record(ctx *gin.Context) {
	var body []byte
	if ctx.Request.Body != nil {
		body, _ = io.ReadAll(ctx.Request.Body)
		ctx.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:    ctx.Request.Method,
		Path:      ctx.Request.URL.Path,
		Body:      body,
		RequestID: ctx.GetHeader(slogx.RequestIDHeader),
	})
	s.mu.Unlock()
	ctx.Next()
}

func (s *Server) injectFailure(ctx *gin.Context) {
	s.mu.Lock()
	i := slices.IndexFunc(s.failures, func(f injectedFailure) bool {
		return f.method == "" || f.method == ctx.Request.Method
	})
	if i < 0 {
		s.mu.Unlock()
		ctx.Next()
		return
	}
	failure := s.failures[i]
	s.failures = slices.Delete(s.failures, i, i+1)
	s.mu.Unlock()
	ctx.AbortWithStatusJSON(failure.status, failure.body)
}

func (s *Server) insertCat(c models.CatCreate) models.Cat {
	s.nextCatId++
	now := s.now().UTC().Truncate(time.Second)
	cat := models.Cat{
		Id:                s.nextCatId,
		Name:              c.Name,
		YearsOfExperience: c.YearsOfExperience,
		Breed:             c.Breed,
		Salary:            c.Salary,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.cats[cat.Id] = cat
	return cat
}

func (s *Server) sortedCats() []models.Cat {
	cats := make([]models.Cat, 0, len(s.cats))
	for _, c := range s.cats {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Id < cats[j].Id })
	return cats
}

func (s *Server) handleGetAllCats(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx.JSON(http.StatusOK, s.sortedCats())
}

func (s *Server) handleValidBreeds(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	breeds := s.breeds
	if breeds == nil {
		breeds = []string{}
	}
	ctx.JSON(http.StatusOK, breeds)
}

func (s *Server) handleGetCat(ctx *gin.Context) {
	id, ok := parseId(ctx, "id", "Cat")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, found := s.cats[id]
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "Cat not found"})
		return
	}
	ctx.JSON(http.StatusOK, cat)
}

func (s *Server) handleAddCat(ctx *gin.Context) {
	var newCat models.CatCreate
	if err := ctx.ShouldBindJSON(&newCat); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.breeds, newCat.Breed) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("Invalid breed '%s'. Must be one of: %s", newCat.Breed, strings.Join(s.breeds, ", ")),
		})
		return
	}
	ctx.JSON(http.StatusCreated, s.insertCat(newCat))
}

func (s *Server) handleUpdateCat(ctx *gin.Context) {
	id, ok := parseId(ctx, "id", "Cat")
	if !ok {
		return
	}

	var fields map[string]json.RawMessage
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	for key := range fields {
		if key != "salary" {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{
				"detail": fmt.Sprintf("Only salary can be updated, got '%s'", key),
				"field":  key,
			})
			return
		}
	}
	var update models.CatUpdate
	if err := json.Unmarshal(fields["salary"], &update.Salary); err != nil || update.Salary <= 0 {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Salary must be positive", "field": "salary"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cat, found := s.cats[id]
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "Cat not found"})
		return
	}
	cat.Salary = update.Salary
	cat.UpdatedAt = s.now().UTC().Truncate(time.Second)
	s.cats[id] = cat
	ctx.JSON(http.StatusOK, cat)
}

func (s *Server) handleDeleteCat(ctx *gin.Context) {
	id, ok := parseId(ctx, "id", "Cat")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.cats[id]; !found {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "Cat not found"})
		return
	}
	for _, m := range s.missions {
		if m.CatId == id && !m.Completed {
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": "Cat has an active mission and cannot be deleted"})
			return
		}
	}
	delete(s.cats, id)
	ctx.Status(http.StatusNoContent)
}

func (s *Server) handleGetAllMissions(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	missions := make([]models.Mission, 0, len(s.missions))
	for _, m := range s.missions {
		missions = append(missions, m)
	}
	sort.Slice(missions, func(i, j int) bool { return missions[i].Id < missions[j].Id })
	ctx.JSON(http.StatusOK, missions)
}

func (s *Server) handleAddMission(ctx *gin.Context) {
	var mission models.Mission
	if err := ctx.ShouldBindJSON(&mission); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"detail": "invalid data. New mission should have between one and three targets",
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.cats[mission.CatId]; !found {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "Cat does not exist", "field": "cat_id"})
		return
	}
	s.nextMissionId++
	mission.Id = s.nextMissionId
	mission.Completed = false
	for i := range mission.Targets {
		s.nextTargetId++
		mission.Targets[i].Id = s.nextTargetId
		mission.Targets[i].Completed = false
	}
	s.missions[mission.Id] = mission
	ctx.JSON(http.StatusCreated, mission)
}

func (s *Server) handleUpdateTarget(ctx *gin.Context) {
	missionId, ok := parseId(ctx, "id", "Mission")
	if !ok {
		return
	}
	targetId, ok := parseId(ctx, "targetId", "Target")
	if !ok {
		return
	}
	var update models.TargetUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mission, found := s.missions[missionId]
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "Mission not found"})
		return
	}
	idx := slices.IndexFunc(mission.Targets, func(t models.Target) bool { return t.Id == targetId })
	if idx < 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": "Target not found"})
		return
	}
	target := mission.Targets[idx]
	if update.Notes != nil {
		if target.Completed || mission.Completed {
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": "Notes of a completed target are frozen", "field": "notes"})
			return
		}
		target.Notes = *update.Notes
	}
	if update.Completed != nil && *update.Completed {
		target.Completed = true
	}
	mission.Targets[idx] = target
	if mission.Done() == len(mission.Targets) {
		mission.Completed = true
	}
	s.missions[missionId] = mission
	ctx.JSON(http.StatusOK, target)
}

func parseId(ctx *gin.Context, param, resource string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"detail": resource + " not found. Use number as id!",
		})
		return 0, false
	}
	return id, true
}
