package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gartstein/zoo/internal/zoo/controller"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// Handler serves the record API over HTTP, mapping requests to the entity
// services and the section catalog.
type Handler struct {
	services  *controller.Services
	catalog   *controller.Catalog
	marshaler runtime.Marshaler
	logger    *zap.Logger
}

// NewHandler constructs a Handler with the given services, catalog and logger.
func NewHandler(services *controller.Services, catalog *controller.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		services:  services,
		catalog:   catalog,
		marshaler: &runtime.JSONBuiltin{},
		logger:    logger.Named("http_handler"),
	}
}

// collection binds the five record routes of one entity. L is the listed
// element, M the stored model and D its wire form.
type collection[L, M, D any] struct {
	path    string
	search  func(context.Context, string) ([]L, error)
	get     func(context.Context, uint) (*M, error)
	create  func(context.Context, *M) (*M, error)
	update  func(context.Context, *M) (*M, error)
	remove  func(context.Context, uint) error
	listDTO func(*L) D
	toDTO   func(*M) D
	fromDTO func(*D) (*M, error)
	setID   func(*M, uint)
}

func (c collection[L, M, D]) register(mux *runtime.ServeMux, h *Handler) error {
	base := "/v1/" + c.path
	item := base + "/{id}"
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, base, c.list(h)},
		{http.MethodPost, base, c.post(h)},
		{http.MethodGet, item, c.getOne(h)},
		{http.MethodPut, item, c.put(h)},
		{http.MethodDelete, item, c.delete(h)},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return fmt.Errorf("register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return nil
}

func (c collection[L, M, D]) list(h *Handler) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		items, err := c.search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			h.writeError(w, err)
			return
		}
		out := make([]D, 0, len(items))
		for i := range items {
			out = append(out, c.listDTO(&items[i]))
		}
		h.writeJSON(w, http.StatusOK, out)
	}
}

func (c collection[L, M, D]) getOne(h *Handler) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		id, err := parseID(params["id"])
		if err != nil {
			h.writeError(w, err)
			return
		}
		record, err := c.get(r.Context(), id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, c.toDTO(record))
	}
}

func (c collection[L, M, D]) post(h *Handler) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		record, err := c.decode(h, r)
		if err != nil {
			h.writeError(w, err)
			return
		}
		c.setID(record, 0)
		created, err := c.create(r.Context(), record)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, c.toDTO(created))
	}
}

// put replaces the whole record; the id in the path wins over the body.
func (c collection[L, M, D]) put(h *Handler) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		id, err := parseID(params["id"])
		if err != nil {
			h.writeError(w, err)
			return
		}
		record, err := c.decode(h, r)
		if err != nil {
			h.writeError(w, err)
			return
		}
		c.setID(record, id)
		updated, err := c.update(r.Context(), record)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, c.toDTO(updated))
	}
}

func (c collection[L, M, D]) delete(h *Handler) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		id, err := parseID(params["id"])
		if err != nil {
			h.writeError(w, err)
			return
		}
		if err := c.remove(r.Context(), id); err != nil {
			h.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (c collection[L, M, D]) decode(h *Handler, r *http.Request) (*M, error) {
	var dto D
	if err := h.marshaler.NewDecoder(r.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("%w: malformed request body: %v", e.ErrInvalidInput, err)
	}
	return c.fromDTO(&dto)
}

// Register adds every record, section, option and report route to mux.
func (h *Handler) Register(mux *runtime.ServeMux) error {
	s := h.services
	registrars := []interface {
		register(*runtime.ServeMux, *Handler) error
	}{
		collection[models.Species, models.Species, speciesDTO]{
			path: "species", search: s.Species.Search, get: s.Species.Get,
			create: s.Species.Create, update: s.Species.Update, remove: s.Species.Delete,
			listDTO: speciesToDTO, toDTO: speciesToDTO, fromDTO: speciesFromDTO,
			setID: func(m *models.Species, id uint) { m.ID = id },
		},
		collection[models.Enclosure, models.Enclosure, enclosureDTO]{
			path: "enclosures", search: s.Enclosures.Search, get: s.Enclosures.Get,
			create: s.Enclosures.Create, update: s.Enclosures.Update, remove: s.Enclosures.Delete,
			listDTO: enclosureToDTO, toDTO: enclosureToDTO, fromDTO: enclosureFromDTO,
			setID: func(m *models.Enclosure, id uint) { m.ID = id },
		},
		collection[models.Employee, models.Employee, employeeDTO]{
			path: "employees", search: s.Employees.Search, get: s.Employees.Get,
			create: s.Employees.Create, update: s.Employees.Update, remove: s.Employees.Delete,
			listDTO: employeeToDTO, toDTO: employeeToDTO, fromDTO: employeeFromDTO,
			setID: func(m *models.Employee, id uint) { m.ID = id },
		},
		collection[models.Feed, models.Feed, feedDTO]{
			path: "feeds", search: s.Feeds.Search, get: s.Feeds.Get,
			create: s.Feeds.Create, update: s.Feeds.Update, remove: s.Feeds.Delete,
			listDTO: feedToDTO, toDTO: feedToDTO, fromDTO: feedFromDTO,
			setID: func(m *models.Feed, id uint) { m.ID = id },
		},
		collection[models.AnimalView, models.Animal, animalDTO]{
			path: "animals", search: s.Animals.Search, get: s.Animals.Get,
			create: s.Animals.Create, update: s.Animals.Update, remove: s.Animals.Delete,
			listDTO: animalViewToDTO, toDTO: animalToDTO, fromDTO: animalFromDTO,
			setID: func(m *models.Animal, id uint) { m.ID = id },
		},
		collection[models.AnimalFeedView, models.AnimalFeed, feedingDTO]{
			path: "feedings", search: s.Feedings.Search, get: s.Feedings.Get,
			create: s.Feedings.Create, update: s.Feedings.Update, remove: s.Feedings.Delete,
			listDTO: feedingViewToDTO, toDTO: feedingToDTO, fromDTO: feedingFromDTO,
			setID: func(m *models.AnimalFeed, id uint) { m.ID = id },
		},
		collection[models.HealthRecordView, models.HealthRecord, healthRecordDTO]{
			path: "health-records", search: s.Health.Search, get: s.Health.Get,
			create: s.Health.Create, update: s.Health.Update, remove: s.Health.Delete,
			listDTO: healthRecordViewToDTO, toDTO: healthRecordToDTO, fromDTO: healthRecordFromDTO,
			setID: func(m *models.HealthRecord, id uint) { m.ID = id },
		},
	}
	for _, reg := range registrars {
		if err := reg.register(mux, h); err != nil {
			return err
		}
	}

	if err := mux.HandlePath(http.MethodGet, "/v1/sections/{section}/table", h.Table); err != nil {
		return err
	}
	if err := mux.HandlePath(http.MethodDelete, "/v1/sections/{section}/records/{id}", h.DeleteRecord); err != nil {
		return err
	}
	if err := mux.HandlePath(http.MethodGet, "/v1/options/{kind}", h.Options); err != nil {
		return err
	}
	return mux.HandlePath(http.MethodGet, "/v1/reports/{section}", h.Report)
}

// Table renders a section listing whose rows carry their record ids.
func (h *Handler) Table(w http.ResponseWriter, r *http.Request, params map[string]string) {
	section, err := models.ParseSection(params["section"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	table, err := h.catalog.Table(r.Context(), section, r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, table)
}

// DeleteRecord deletes a record by the id bound to its table row.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request, params map[string]string) {
	section, err := models.ParseSection(params["section"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	id, err := parseID(params["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.catalog.Delete(r.Context(), section, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Options lists the choices of a form picker.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request, params map[string]string) {
	opts, err := h.catalog.Options(r.Context(), models.OptionKind(params["kind"]))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, opts)
}

// Report writes the plain text report of a section.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request, params map[string]string) {
	section, err := models.ParseSection(params["section"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	body, err := h.catalog.Report(r.Context(), section)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", e.ErrInvalidInput, raw)
	}
	return uint(id), nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := h.marshaler.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.marshaler.ContentType(v))
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// writeError renders err as a google.rpc.Status body with the matching
// HTTP status.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	st := status.Convert(h.mapServiceError(err))
	body, merr := protojson.Marshal(st.Proto())
	if merr != nil {
		h.logger.Error("Failed to encode error", zap.Error(merr))
		http.Error(w, st.Message(), httpStatusFromCode(st.Code()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusFromCode(st.Code()))
	_, _ = w.Write(body)
}

// mapServiceError maps domain or repository errors to gRPC status codes.
func (h *Handler) mapServiceError(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrReferenced):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return status.Error(codes.Internal, fmt.Sprintf("internal server error: %v", err))
	}
}

// httpStatusFromCode follows the gateway mapping, except that a refused
// delete is a conflict with the stored state.
func httpStatusFromCode(code codes.Code) int {
	if code == codes.FailedPrecondition {
		return http.StatusConflict
	}
	return runtime.HTTPStatusFromCode(code)
}
