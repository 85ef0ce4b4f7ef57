package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/exlity/admin-backend/internal/api/metrics"
	"github.com/exlity/admin-backend/internal/core/domain"
	"github.com/exlity/admin-backend/internal/core/ports"
)

// Query parameters with reserved meaning on list requests; everything else is
// treated as a filter condition.
const (
	paramOrder = "order"
	paramLimit = "limit"
)

// EntityHandler exposes the generic entity CRUD surface. The entity name in
// the path is resolved through the registry, so any PascalCase name maps to
// its table without per-entity routes.
type EntityHandler struct {
	entities ports.EntityResolver
	audit    ports.AuditSink
}

func NewEntityHandler(entities ports.EntityResolver, audit ports.AuditSink) *EntityHandler {
	return &EntityHandler{entities: entities, audit: audit}
}

// List returns entity records, optionally filtered, ordered, and limited.
//
// @Summary      List entity records
// @Tags         entities
// @Produce      json
// @Param        entity  path      string  true   "Entity name (PascalCase)"
// @Param        order   query     string  false  "Order field, '-' prefix for descending"
// @Param        limit   query     int     false  "Maximum number of records"
// @Success      200     {array}   map[string]any
// @Failure      401     {object}  map[string]string
// @Router       /v1/entities/{entity} [get]
func (h *EntityHandler) List(c echo.Context) error {
	name := c.Param("entity")
	entity := h.entities.Resolve(name)

	orderBy := c.QueryParam(paramOrder)
	limit := 0
	if raw := c.QueryParam(paramLimit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = parsed
	}

	conditions := filterConditions(c)

	operation := "list"
	var records []domain.Record
	var err error
	start := time.Now()
	if len(conditions) > 0 {
		operation = "filter"
		records, err = entity.Filter(c.Request().Context(), conditions, orderBy, limit)
	} else {
		records, err = entity.List(c.Request().Context(), orderBy, limit)
	}
	observe(name, operation, start, err)
	if err != nil {
		return err
	}

	if records == nil {
		records = []domain.Record{}
	}
	return c.JSON(http.StatusOK, records)
}

// Get returns a single record by id.
//
// @Summary      Get an entity record
// @Tags         entities
// @Produce      json
// @Param        entity  path      string  true  "Entity name (PascalCase)"
// @Param        id      path      string  true  "Record id"
// @Success      200     {object}  map[string]any
// @Failure      404     {object}  map[string]string
// @Router       /v1/entities/{entity}/{id} [get]
func (h *EntityHandler) Get(c echo.Context) error {
	name := c.Param("entity")

	start := time.Now()
	record, err := h.entities.Resolve(name).Get(c.Request().Context(), c.Param("id"))
	observe(name, "get", start, err)
	if err != nil {
		return err
	}
	if record == nil {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	return c.JSON(http.StatusOK, record)
}

// Create inserts a new record.
//
// @Summary      Create an entity record
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        entity  path      string          true  "Entity name (PascalCase)"
// @Param        body    body      map[string]any  true  "Record fields"
// @Success      201     {object}  map[string]any
// @Failure      400     {object}  map[string]string
// @Router       /v1/entities/{entity} [post]
func (h *EntityHandler) Create(c echo.Context) error {
	name := c.Param("entity")

	var payload domain.Record
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	start := time.Now()
	record, err := h.entities.Resolve(name).Create(c.Request().Context(), payload)
	observe(name, "create", start, err)
	if err != nil {
		return err
	}

	h.enqueueAudit(c, name, "create", record.ID())
	return c.JSON(http.StatusCreated, record)
}

// Update applies a partial update to a record.
//
// @Summary      Update an entity record
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        entity  path      string          true  "Entity name (PascalCase)"
// @Param        id      path      string          true  "Record id"
// @Param        body    body      map[string]any  true  "Fields to change"
// @Success      200     {object}  map[string]any
// @Failure      404     {object}  map[string]string
// @Router       /v1/entities/{entity}/{id} [put]
func (h *EntityHandler) Update(c echo.Context) error {
	name := c.Param("entity")
	id := c.Param("id")

	var payload domain.Record
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	start := time.Now()
	record, err := h.entities.Resolve(name).Update(c.Request().Context(), id, payload)
	observe(name, "update", start, err)
	if err != nil {
		return err
	}
	if record == nil {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}

	h.enqueueAudit(c, name, "update", id)
	return c.JSON(http.StatusOK, record)
}

// Delete removes a record by id.
//
// @Summary      Delete an entity record
// @Tags         entities
// @Param        entity  path  string  true  "Entity name (PascalCase)"
// @Param        id      path  string  true  "Record id"
// @Success      204
// @Router       /v1/entities/{entity}/{id} [delete]
func (h *EntityHandler) Delete(c echo.Context) error {
	name := c.Param("entity")
	id := c.Param("id")

	start := time.Now()
	err := h.entities.Resolve(name).Delete(c.Request().Context(), id)
	observe(name, "delete", start, err)
	if err != nil {
		return err
	}

	h.enqueueAudit(c, name, "delete", id)
	return c.NoContent(http.StatusNoContent)
}

// filterConditions turns the non-reserved query parameters into filter
// conditions. A repeated parameter becomes an inclusion test over its values.
func filterConditions(c echo.Context) map[string]any {
	conditions := make(map[string]any)
	for key, values := range c.QueryParams() {
		if key == paramOrder || key == paramLimit {
			continue
		}
		if len(values) == 1 {
			conditions[key] = values[0]
			continue
		}
		many := make([]any, len(values))
		for i, v := range values {
			many[i] = v
		}
		conditions[key] = many
	}
	return conditions
}

func (h *EntityHandler) enqueueAudit(c echo.Context, entity, operation, recordID string) {
	h.audit.Enqueue(domain.AuditEvent{
		Entity:     entity,
		Table:      domain.EntityTableName(entity),
		Operation:  operation,
		RecordID:   recordID,
		ActorID:    actorID(c),
		OccurredAt: time.Now().UTC(),
	})
	metrics.AuditEventsEnqueuedTotal.WithLabelValues(operation).Inc()
}

func observe(entity, operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.EntityOperationsTotal.WithLabelValues(entity, operation, result).Inc()
	metrics.EntityOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
