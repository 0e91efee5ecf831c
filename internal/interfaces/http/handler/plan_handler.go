// Package handler contains the HTTP handlers of the planning API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/hapkiduki/fulfillment-go/internal/application/dto"
	"github.com/hapkiduki/fulfillment-go/internal/application/port"
	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/fulfillment"
	"github.com/hapkiduki/fulfillment-go/internal/domain/repository"
	"github.com/hapkiduki/fulfillment-go/internal/interfaces/http/middleware"
)

// PlanService is what the handler needs from the planning service.
type PlanService interface {
	Plan(ctx context.Context, ds *entity.Dataset, policy string) (*dto.PlanReport, error)
	Get(ctx context.Context, planID string) (*dto.PlanReport, error)
	Compare(ctx context.Context, ds *entity.Dataset) ([]dto.PolicyComparison, error)
}

// PlanHandler serves /v1/plans.
type PlanHandler struct {
	svc      PlanService
	validate *validator.Validate
	log      port.Logger
}

// NewPlanHandler creates the handler.
func NewPlanHandler(svc PlanService, log port.Logger) *PlanHandler {
	if log == nil {
		log = port.NopLogger{}
	}
	return &PlanHandler{
		svc:      svc,
		validate: newValidator(),
		log:      log,
	}
}

// newValidator reports field errors with their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Routes mounts the plan endpoints:
//
//	POST /          create a plan from an inline dataset
//	POST /compare   run every policy on the dataset, store nothing
//	GET  /{planID}  fetch a stored plan
func (h *PlanHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Post("/compare", h.Compare)
	r.Get("/{planID}", h.Get)
	return r
}

// Create handles POST /v1/plans.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ds, ok := h.decodeDataset(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Plan(r.Context(), ds, req.Policy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, dto.NewSuccessResponse(report))
}

// Compare handles POST /v1/plans/compare.
func (h *PlanHandler) Compare(w http.ResponseWriter, r *http.Request) {
	_, ds, ok := h.decodeDataset(w, r)
	if !ok {
		return
	}

	results, err := h.svc.Compare(r.Context(), ds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, dto.NewSuccessResponse(results))
}

// Get handles GET /v1/plans/{planID}.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Get(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, dto.NewSuccessResponse(report))
}

func (h *PlanHandler) decodeDataset(w http.ResponseWriter, r *http.Request) (*dto.CreatePlanRequest, *entity.Dataset, bool) {
	var req dto.CreatePlanRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond(w, r, http.StatusRequestEntityTooLarge, dto.NewErrorResponse[any]("REQUEST_TOO_LARGE", "Request body exceeds the size limit"))
			return nil, nil, false
		}
		respond(w, r, http.StatusBadRequest, dto.NewErrorResponse[any]("INVALID_JSON", "Request body is not valid JSON"))
		return nil, nil, false
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respond(w, r, http.StatusBadRequest, dto.NewValidationErrorResponse[any](toValidationErrors(verrs)))
			return nil, nil, false
		}
		h.writeError(w, r, err)
		return nil, nil, false
	}

	ds, err := req.Dataset.ToRecords().Build()
	if err != nil {
		h.writeError(w, r, err)
		return nil, nil, false
	}
	return &req, ds, true
}

func toValidationErrors(verrs validator.ValidationErrors) []dto.ValidationError {
	out := make([]dto.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.ValidationError{
			Field:   strings.TrimPrefix(fe.Namespace(), "CreatePlanRequest."),
			Message: "failed on '" + fe.Tag() + "'",
		})
	}
	return out
}

// writeError maps domain errors onto HTTP status codes.
func (h *PlanHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	message := "An unexpected error occurred"

	switch {
	case errors.Is(err, fulfillment.ErrUnknownPolicy):
		status, code, message = http.StatusBadRequest, "UNKNOWN_POLICY", err.Error()
	case errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCustomerNotFound):
		status, code, message = http.StatusUnprocessableEntity, "INVALID_DATASET", err.Error()
	case errors.Is(err, repository.ErrPlanNotFound):
		status, code, message = http.StatusNotFound, "PLAN_NOT_FOUND", "Plan not found"
	}

	if status == http.StatusInternalServerError {
		h.log.WithContext(r.Context()).Error("Plan request failed", "error", err)
	}

	respond(w, r, status, dto.NewErrorResponse[any](code, message))
}

// respond writes an envelope tagged with the request ID.
func respond[T any](w http.ResponseWriter, r *http.Request, status int, body dto.APIResponse[T]) {
	render.Status(r, status)
	render.JSON(w, r, body.WithRequestID(middleware.GetRequestID(r.Context())))
}
