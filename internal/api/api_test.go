package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sor/internal/domain/agent"
	"sor/internal/domain/document"
	"sor/internal/domain/project"
	"sor/internal/domain/stage"
	"sor/pkg/errors"
)

type memProjects struct {
	mu     sync.Mutex
	items  map[string]*project.Project
	stages *memStages
}

func newMemProjects(stages *memStages) *memProjects {
	return &memProjects{items: make(map[string]*project.Project), stages: stages}
}

func (m *memProjects) Create(_ context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProjects) GetByID(ctx context.Context, id string) (*project.Project, error) {
	m.mu.Lock()
	p, ok := m.items[id]
	m.mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	cp := *p
	results, _ := m.stages.ListByProject(ctx, id)
	cp.StageResults = results
	return &cp, nil
}

func (m *memProjects) List(context.Context) ([]project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []project.Project
	for _, p := range m.items {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProjects) Update(_ context.Context, id string, fields project.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	if fields.Name != nil {
		p.Name = *fields.Name
	}
	if fields.ResearchQuestion != nil {
		p.ResearchQuestion = *fields.ResearchQuestion
	}
	if fields.Context != nil {
		p.Context = *fields.Context
	}
	if fields.State != nil {
		p.State = *fields.State
	}
	if fields.CurrentStage != nil {
		p.CurrentStage = *fields.CurrentStage
	}
	return nil
}

func (m *memProjects) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	delete(m.items, id)
	return nil
}

type memStages struct {
	mu    sync.Mutex
	items map[string]*stage.Result
}

func newMemStages() *memStages {
	return &memStages{items: make(map[string]*stage.Result)}
}

func stageKey(projectID string, n int) string {
	return fmt.Sprintf("%s-%d", projectID, n)
}

func (m *memStages) Save(_ context.Context, result *stage.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *result
	m.items[stageKey(result.ProjectID, result.StageNumber)] = &cp
	return nil
}

func (m *memStages) GetByStage(_ context.Context, projectID string, n int) (*stage.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[stageKey(projectID, n)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "stage %d", n)
	}
	cp := *r
	return &cp, nil
}

func (m *memStages) ListByProject(_ context.Context, projectID string) ([]stage.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []stage.Result
	for _, r := range m.items {
		if r.ProjectID == projectID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StageNumber < out[j].StageNumber })
	return out, nil
}

func (m *memStages) Approve(_ context.Context, projectID string, n int, approvedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[stageKey(projectID, n)]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "stage %d", n)
	}
	r.Status = stage.StatusApproved
	r.ApprovedAt = &approvedAt
	return nil
}

func (m *memStages) SetOverride(_ context.Context, projectID string, n int, content, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[stageKey(projectID, n)]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "stage %d", n)
	}
	r.HumanOverride = content
	r.HumanNotes = notes
	return nil
}

type memAgents struct {
	mu    sync.Mutex
	items map[string]*agent.Agent
}

func newMemAgents() *memAgents {
	return &memAgents{items: make(map[string]*agent.Agent)}
}

func (m *memAgents) Create(_ context.Context, a *agent.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *memAgents) GetByID(_ context.Context, id string) (*agent.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	cp := *a
	return &cp, nil
}

func (m *memAgents) List(_ context.Context, f agent.Filter) ([]agent.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []agent.Agent
	for _, a := range m.items {
		if f.ProjectID == nil && a.ProjectID != nil {
			continue
		}
		if f.ProjectID != nil && (a.ProjectID == nil || *a.ProjectID != *f.ProjectID) {
			continue
		}
		if f.Stage != nil && a.Stage != *f.Stage {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memAgents) Update(_ context.Context, id string, fields agent.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	if fields.Enabled != nil {
		a.Enabled = *fields.Enabled
	}
	if fields.Temperature != nil {
		a.Temperature = *fields.Temperature
	}
	if fields.SystemPrompt != nil {
		a.SystemPrompt = *fields.SystemPrompt
	}
	return nil
}

func (m *memAgents) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	delete(m.items, id)
	return nil
}

type memDocs struct {
	mu    sync.Mutex
	items []document.Document
}

func (m *memDocs) Create(_ context.Context, d *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, *d)
	return nil
}

func (m *memDocs) ListByProject(_ context.Context, projectID string) ([]document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []document.Document
	for _, d := range m.items {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.items {
		if d.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(errors.ErrNotFound, "document %s", id)
}

type testEnv struct {
	mux      *http.ServeMux
	projects *memProjects
	agents   *memAgents
	stages   *memStages
	docs     *memDocs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stages := newMemStages()
	projects := newMemProjects(stages)
	agents := newMemAgents()
	docs := &memDocs{}

	h := NewHandlers(HandlersConfig{
		Projects:   projects,
		ProjectSvc: project.NewService(projects, stages),
		Agents:     agents,
		AgentSvc:   agent.NewService(agents),
		Stages:     stages,
		Documents:  docs,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/projects", h.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", h.GetProject)
	mux.HandleFunc("GET /api/projects/{id}/stages/{stage}", h.GetStage)
	mux.HandleFunc("GET /api/projects/{id}/stages/{stage}/run", h.RunStage)
	mux.HandleFunc("POST /api/projects/{id}/stages/{stage}/approve", h.ApproveStage)
	mux.HandleFunc("PUT /api/projects/{id}/stages/{stage}/override", h.OverrideStage)
	mux.HandleFunc("POST /api/projects/{id}/documents", h.UploadDocument)
	mux.HandleFunc("POST /api/agents/{id}/toggle", h.ToggleAgent)

	return &testEnv{mux: mux, projects: projects, agents: agents, stages: stages, docs: docs}
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New("Churn study", "Why do users churn?", "")
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *testEnv) seedStageResult(t *testing.T, projectID string, n int, status stage.Status) {
	t.Helper()
	res := stage.NewResult(projectID, n)
	res.Status = status
	require.NoError(t, e.stages.Save(context.Background(), res))
}

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.agents.Create(context.Background(), &agent.Agent{
		ID: "scoper", Name: "The Scoper", SystemPrompt: "s", Stage: 1, Enabled: true,
	}))

	t.Run("creates project and clones default agents", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/projects", map[string]string{
			"name":              "Churn study",
			"research_question": "Why do users churn?",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var p project.Project
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, project.StateDraft, p.State)
		assert.Equal(t, 1, p.CurrentStage)

		clones, err := env.agents.List(context.Background(), agent.Filter{ProjectID: &p.ID})
		require.NoError(t, err)
		require.Len(t, clones, 1)
		assert.NotEqual(t, "scoper", clones[0].ID)
	})

	t.Run("rejects missing research question", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/projects", map[string]string{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetStage(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t)
	env.seedStageResult(t, p.ID, 1, stage.StatusComplete)

	t.Run("returns stage result", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/projects/"+p.ID+"/stages/1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects stage out of range", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/projects/"+p.ID+"/stages/7", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects non-numeric stage", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/projects/"+p.ID+"/stages/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 404 for missing result", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/projects/"+p.ID+"/stages/2", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRunStage_Preconditions(t *testing.T) {
	env := newTestEnv(t)

	t.Run("returns 404 for missing project", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/projects/missing/stages/1/run", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects run when prior stage is not approved", func(t *testing.T) {
		p := env.seedProject(t)
		env.seedStageResult(t, p.ID, 1, stage.StatusComplete)

		rec := env.do(http.MethodGet, "/api/projects/"+p.ID+"/stages/2/run", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "not approved")
	})

	t.Run("rejects run with no enabled agents", func(t *testing.T) {
		p := env.seedProject(t)

		rec := env.do(http.MethodGet, "/api/projects/"+p.ID+"/stages/1/run", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "no agents")
	})
}

func TestApproveStage(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t)
	env.seedStageResult(t, p.ID, 1, stage.StatusComplete)

	t.Run("approves and advances", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/projects/"+p.ID+"/stages/1/approve", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got project.Project
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 2, got.CurrentStage)
		assert.Equal(t, project.StateInProgress, got.State)
	})

	t.Run("is idempotent", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/projects/"+p.ID+"/stages/1/approve", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects unrun stage", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/projects/"+p.ID+"/stages/3/approve", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("final stage approval completes the project", func(t *testing.T) {
		env.seedStageResult(t, p.ID, 6, stage.StatusComplete)
		rec := env.do(http.MethodPost, "/api/projects/"+p.ID+"/stages/6/approve", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got project.Project
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, project.StateComplete, got.State)
	})
}

func TestOverrideStage(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t)
	env.seedStageResult(t, p.ID, 1, stage.StatusComplete)

	t.Run("requires content", func(t *testing.T) {
		rec := env.do(http.MethodPut, "/api/projects/"+p.ID+"/stages/1/override",
			map[string]string{"notes": "n"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("stores override", func(t *testing.T) {
		rec := env.do(http.MethodPut, "/api/projects/"+p.ID+"/stages/1/override",
			map[string]string{"content": "Corrected framing", "notes": "missed seasonality"})
		require.Equal(t, http.StatusOK, rec.Code)

		var got stage.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Corrected framing", got.HumanOverride)
		assert.Equal(t, "missed seasonality", got.HumanNotes)
	})
}

func TestToggleAgent(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.agents.Create(context.Background(), &agent.Agent{
		ID: "scoper", Name: "The Scoper", SystemPrompt: "s", Stage: 1, Enabled: true,
	}))

	rec := env.do(http.MethodPost, "/api/agents/scoper/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enabled":false`)

	rec = env.do(http.MethodPost, "/api/agents/scoper/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enabled":true`)
}

func uploadRequest(t *testing.T, path, filename, contentType, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadDocument(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProject(t)

	t.Run("accepts plain text", func(t *testing.T) {
		req := uploadRequest(t, "/api/projects/"+p.ID+"/documents",
			"notes.txt", "text/plain", "interview notes")
		rec := httptest.NewRecorder()
		env.mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var doc document.Document
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, "interview notes", doc.ExtractedText)
	})

	t.Run("rejects pdf", func(t *testing.T) {
		req := uploadRequest(t, "/api/projects/"+p.ID+"/documents",
			"report.pdf", "application/pdf", "%PDF-1.4")
		rec := httptest.NewRecorder()
		env.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("rejects empty file", func(t *testing.T) {
		req := uploadRequest(t, "/api/projects/"+p.ID+"/documents",
			"empty.txt", "text/plain", "   ")
		rec := httptest.NewRecorder()
		env.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
