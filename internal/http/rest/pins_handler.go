package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hkaplan/crisispin/internal/model"
	"github.com/hkaplan/crisispin/util"
	"github.com/hkaplan/crisispin/util/values"
)

const (
	defaultPageLimit = 200
	maxPageLimit     = 500

	defaultMaxDistance = 50000
	maxMaxDistance     = 200000
)

func (api *API) PinRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/pins", Handler(api.ListPins))
	mux.Method(http.MethodGet, "/pins/near", Handler(api.GetNearbyPins))
	mux.Method(http.MethodPost, "/pins", Handler(api.CreatePin))
	mux.Method(http.MethodPatch, "/pins/{pinID}/vote", Handler(api.VoteOnPin))
	mux.Method(http.MethodDelete, "/pins/{pinID}", Handler(api.DeletePin))
	mux.Method(http.MethodGet, "/summary", Handler(api.GetSummary))

	return mux
}

func (api *API) ListPins(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := requestTracing(r)

	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 1 {
		page = v
	}
	limit := defaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	params := model.ListPinsParams{
		Page:         page,
		Limit:        limit,
		MainCategory: r.URL.Query().Get("mainCategory"),
		SubType:      r.URL.Query().Get("subType"),
	}

	list, status, message, err := api.ListPinsHelper(r.Context(), params)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return &ServerResponse{
		StatusCode: util.StatusCode(status),
		Data:       list,
	}
}

func (api *API) GetNearbyPins(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := requestTracing(r)

	var fields []util.FieldError
	longitude, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		fields = append(fields, util.FieldError{Field: "lng", Message: "must be a number"})
	}
	latitude, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		fields = append(fields, util.FieldError{Field: "lat", Message: "must be a number"})
	}
	if len(fields) > 0 {
		return respondWithFieldErrors(fields, &tc)
	}

	maxDistance := defaultMaxDistance
	if v, err := strconv.Atoi(r.URL.Query().Get("maxDistance")); err == nil {
		maxDistance = v
	}
	if maxDistance > maxMaxDistance {
		maxDistance = maxMaxDistance
	}

	params := model.NearbyPinsParams{
		Longitude:   longitude,
		Latitude:    latitude,
		MaxDistance: maxDistance,
	}

	pins, status, message, err := api.GetNearbyPinsHelper(r.Context(), params)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	if pins == nil {
		pins = []model.Pin{}
	}
	return &ServerResponse{
		StatusCode: util.StatusCode(status),
		Data:       pins,
	}
}

func (api *API) CreatePin(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := requestTracing(r)

	var req model.CreatePinRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	// Fail fast, nothing is written on a validation error.
	if err := util.ValidateStruct(req); err != nil {
		return respondWithFieldErrors(util.FieldErrors(err), &tc)
	}

	pin, status, message, err := api.CreatePinHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return &ServerResponse{
		StatusCode: util.StatusCode(status),
		Data:       pin,
	}
}

func (api *API) VoteOnPin(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := requestTracing(r)

	id, err := uuid.Parse(chi.URLParam(r, "pinID"))
	if err != nil {
		// A malformed id cannot reference a record.
		return respondWithError(err, "Pin not found", values.NotFound, &tc)
	}

	var req model.VoteRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if req.Vote != 1 && req.Vote != -1 {
		return respondWithError(errors.New("invalid vote value"), "vote must be 1 or -1", values.BadRequestBody, &tc)
	}

	pin, status, message, err := api.VotePinHelper(r.Context(), id, req.Vote)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return &ServerResponse{
		StatusCode: util.StatusCode(status),
		Data:       pin,
	}
}

func (api *API) DeletePin(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := requestTracing(r)

	id, err := uuid.Parse(chi.URLParam(r, "pinID"))
	if err != nil {
		return respondWithError(err, "Pin not found", values.NotFound, &tc)
	}

	status, message, err := api.DeletePinHelper(r.Context(), id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return &ServerResponse{
		StatusCode: util.StatusCode(status),
		Data: struct {
			Message string `json:"message"`
		}{Message: message},
	}
}

func (api *API) GetSummary(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := requestTracing(r)

	summary, status, message, err := api.GetSummaryHelper(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return &ServerResponse{
		StatusCode: util.StatusCode(status),
		Data:       summary,
	}
}
