package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// stubEntity records the arguments of the last call and returns canned data.
type stubEntity struct {
	records    []domain.Record
	record     domain.Record
	err        error
	conditions map[string]any
	orderBy    string
	limit      int
	deleted    []string
}

func (s *stubEntity) List(_ context.Context, orderBy string, limit int) ([]domain.Record, error) {
	s.orderBy, s.limit = orderBy, limit
	return s.records, s.err
}

func (s *stubEntity) Filter(_ context.Context, conditions map[string]any, orderBy string, limit int) ([]domain.Record, error) {
	s.conditions, s.orderBy, s.limit = conditions, orderBy, limit
	return s.records, s.err
}

func (s *stubEntity) Get(_ context.Context, _ string) (domain.Record, error) {
	return s.record, s.err
}

func (s *stubEntity) Create(_ context.Context, data domain.Record) (domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := data.Clone()
	out["id"] = "new-1"
	return out, nil
}

func (s *stubEntity) Update(_ context.Context, _ string, data domain.Record) (domain.Record, error) {
	return s.record, s.err
}

func (s *stubEntity) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

type stubResolver struct {
	entity *stubEntity
	names  []string
}

func (r *stubResolver) Resolve(name string) ports.Entity {
	r.names = append(r.names, name)
	return r.entity
}

func (r *stubResolver) Keys() []string { return r.names }

type stubSink struct {
	events []domain.AuditEvent
}

func (s *stubSink) Enqueue(event domain.AuditEvent) { s.events = append(s.events, event) }

func entityContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEntityHandler_List(t *testing.T) {
	entity := &stubEntity{records: []domain.Record{{"id": "j1", "title": "Backend Engineer"}}}
	resolver := &stubResolver{entity: entity}
	handler := NewEntityHandler(resolver, &stubSink{})

	c, rec := entityContext(t, http.MethodGet, "/v1/entities/Job?order=-created_date&limit=5", "")
	c.SetParamNames("entity")
	c.SetParamValues("Job")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if entity.orderBy != "-created_date" || entity.limit != 5 {
		t.Fatalf("query params not forwarded: order=%q limit=%d", entity.orderBy, entity.limit)
	}
	if resolver.names[0] != "Job" {
		t.Fatalf("entity name not resolved: %v", resolver.names)
	}
}

func TestEntityHandler_List_FilterParams(t *testing.T) {
	entity := &stubEntity{}
	handler := NewEntityHandler(&stubResolver{entity: entity}, &stubSink{})

	c, rec := entityContext(t, http.MethodGet, "/v1/entities/Job?status=active&role=HR&role=Admin&limit=3", "")
	c.SetParamNames("entity")
	c.SetParamValues("Job")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if entity.conditions["status"] != "active" {
		t.Fatalf("scalar filter not forwarded: %#v", entity.conditions)
	}
	roles, ok := entity.conditions["role"].([]any)
	if !ok || len(roles) != 2 {
		t.Fatalf("repeated param must become an inclusion filter: %#v", entity.conditions)
	}
	if _, reserved := entity.conditions["limit"]; reserved {
		t.Fatalf("reserved params must not be filters: %#v", entity.conditions)
	}
}

func TestEntityHandler_List_EmptyIsArray(t *testing.T) {
	handler := NewEntityHandler(&stubResolver{entity: &stubEntity{}}, &stubSink{})

	c, rec := entityContext(t, http.MethodGet, "/v1/entities/Job", "")
	c.SetParamNames("entity")
	c.SetParamValues("Job")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("empty result must encode as [], got %q", body)
	}
}

func TestEntityHandler_Get_NotFound(t *testing.T) {
	handler := NewEntityHandler(&stubResolver{entity: &stubEntity{}}, &stubSink{})

	c, rec := entityContext(t, http.MethodGet, "/v1/entities/Job/gone", "")
	c.SetParamNames("entity", "id")
	c.SetParamValues("Job", "gone")

	err := handler.Get(c)
	if err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEntityHandler_Create_AuditsWithActor(t *testing.T) {
	sink := &stubSink{}
	handler := NewEntityHandler(&stubResolver{entity: &stubEntity{}}, sink)

	c, rec := entityContext(t, http.MethodPost, "/v1/entities/Job", `{"title":"Driver"}`)
	c.SetParamNames("entity")
	c.SetParamValues("Job")
	c.Set("user_id", "u1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "new-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(sink.events))
	}
	event := sink.events[0]
	if event.Entity != "Job" || event.Table != "job" || event.Operation != "create" || event.ActorID != "u1" {
		t.Fatalf("unexpected audit event: %+v", event)
	}
}

func TestEntityHandler_Update_NotFound(t *testing.T) {
	sink := &stubSink{}
	handler := NewEntityHandler(&stubResolver{entity: &stubEntity{}}, sink)

	c, rec := entityContext(t, http.MethodPut, "/v1/entities/Job/gone", `{"title":"x"}`)
	c.SetParamNames("entity", "id")
	c.SetParamValues("Job", "gone")

	err := handler.Update(c)
	if err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if len(sink.events) != 0 {
		t.Fatalf("no-op update must not be audited, got %+v", sink.events)
	}
}

func TestEntityHandler_Delete(t *testing.T) {
	entity := &stubEntity{}
	sink := &stubSink{}
	handler := NewEntityHandler(&stubResolver{entity: entity}, sink)

	c, rec := entityContext(t, http.MethodDelete, "/v1/entities/Job/j1", "")
	c.SetParamNames("entity", "id")
	c.SetParamValues("Job", "j1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(entity.deleted) != 1 || entity.deleted[0] != "j1" {
		t.Fatalf("delete not forwarded: %v", entity.deleted)
	}
	if len(sink.events) != 1 || sink.events[0].Operation != "delete" {
		t.Fatalf("delete must be audited, got %+v", sink.events)
	}
}

func TestEntityHandler_List_BadLimit(t *testing.T) {
	handler := NewEntityHandler(&stubResolver{entity: &stubEntity{}}, &stubSink{})

	c, rec := entityContext(t, http.MethodGet, "/v1/entities/Job?limit=abc", "")
	c.SetParamNames("entity")
	c.SetParamValues("Job")

	err := handler.List(c)
	if err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
