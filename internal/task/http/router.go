package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mkravtsov/taskdeck/internal/auth/gate"
	"github.com/mkravtsov/taskdeck/internal/common/config"
	"github.com/mkravtsov/taskdeck/internal/common/constants"
	commonhttp "github.com/mkravtsov/taskdeck/internal/common/http"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
	"github.com/mkravtsov/taskdeck/internal/task/domain"
	"github.com/mkravtsov/taskdeck/internal/task/service"
)

type createTaskRequest struct {
	Title string `json:"title" validate:"required"`
}

type updateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type taskResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type taskListResponse struct {
	Tasks  []taskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	tasks *service.Service
	cfg   config.AppConfig
	log   *logger.Logger
}

// NewHandler mounts the authenticated routes. The gate middleware runs
// before every handler here, so the resolved user is always present in the
// request context.
func NewHandler(tasks *service.Service, gateMiddleware func(http.Handler) http.Handler, cfg config.AppConfig, log *logger.Logger) http.Handler {
	h := &Handler{tasks: tasks, cfg: cfg, log: log}

	r := mux.NewRouter()
	r.Use(gateMiddleware)
	r.HandleFunc("/api/me", h.me).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", h.list).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", h.create).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", h.delete).Methods(http.MethodDelete)

	return r
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := gate.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", "")
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, userResponse{
		ID:        string(user.ID),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := gate.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", "")
		return
	}

	q, err := parseListQuery(r)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	result, err := h.tasks.List(ctx, string(user.ID), q)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	tasks := make([]taskResponse, 0, len(result.Tasks))
	for _, t := range result.Tasks {
		tasks = append(tasks, toTaskResponse(t))
	}

	commonhttp.WriteJSON(w, http.StatusOK, taskListResponse{
		Tasks:  tasks,
		Total:  result.Total,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := gate.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", "")
		return
	}

	var req createTaskRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create task failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	if err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.HandleError(w, r, service.ErrValidationEmptyTitle, h.log)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	task, err := h.tasks.Create(ctx, string(user.ID), req.Title)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := gate.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", "")
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	task, err := h.tasks.Get(ctx, string(user.ID), taskID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := gate.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", "")
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	var req updateTaskRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update task failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	task, err := h.tasks.Update(ctx, string(user.ID), taskID, domain.UpdateFields{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := gate.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", "")
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	if err := h.tasks.Delete(ctx, string(user.ID), taskID); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseTaskID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrValidationInvalidTaskID
	}
	return id, nil
}

// parseListQuery validates pagination at the boundary; the repository only
// ever sees in-range values. Sort parameters pass through untouched, the
// repository's allow-list handles them.
func parseListQuery(r *http.Request) (domain.ListQuery, error) {
	params := r.URL.Query()

	q := domain.ListQuery{
		SortBy: params.Get("sort_by"),
		Order:  params.Get("order"),
		Limit:  constants.DefaultPageLimit,
		Offset: 0,
	}

	if raw := params.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.ListQuery{}, service.ErrValidationInvalidCompleted
		}
		q.Completed = &completed
	}

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < constants.MinPageLimit || limit > constants.MaxPageLimit {
			return domain.ListQuery{}, service.ErrValidationInvalidLimit
		}
		q.Limit = limit
	}

	if raw := params.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return domain.ListQuery{}, service.ErrValidationInvalidOffset
		}
		q.Offset = offset
	}

	return q, nil
}

func toTaskResponse(t domain.Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}
