package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"directory.fixr.org/internal/directory"
	"directory.fixr.org/internal/geo"
	"directory.fixr.org/internal/geocode"
	"directory.fixr.org/internal/location"
)

// HealthStatus is the JSON response of /v1/healthcheck.
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Records     int    `json:"records"`
	Loaded      bool   `json:"loaded"`
	Location    string `json:"location"`
}

func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	_, state := app.Locator.Snapshot()

	status := HealthStatus{
		Status:      "available",
		Environment: app.Config.Env,
		Version:     app.Version,
		Records:     len(app.Store.Records()),
		Loaded:      app.Store.Loaded(),
		Location:    state.String(),
	}

	app.writeJSON(w, http.StatusOK, status)
}

// providersResponse wraps the ranked, filtered record list. Loading is true
// while bootstrap is still in flight so consumers can tell "no results" from
// "not yet loaded".
type providersResponse struct {
	Loading   bool               `json:"loading"`
	Providers []directory.Record `json:"providers"`
}

// listProvidersHandler filters the record set by the q and category query
// parameters, then ranks by proximity. The ranking origin is the lat/lng
// query parameters when present, falling back to the session's resolved
// device location; with neither, the filtered order passes through
// unchanged.
func (app *Application) listProvidersHandler(w http.ResponseWriter, r *http.Request) {
	if !app.Store.Loaded() {
		app.writeJSON(w, http.StatusOK, providersResponse{Loading: true, Providers: []directory.Record{}})
		return
	}

	query := r.URL.Query()
	filter := directory.Filter{
		Query:    query.Get("q"),
		Category: query.Get("category"),
	}

	matched := filter.Apply(app.Store.Records())
	ranked := directory.RankByProximity(matched, app.rankingOrigin(query.Get("lat"), query.Get("lng")))

	app.writeJSON(w, http.StatusOK, providersResponse{Loading: false, Providers: ranked})
}

// rankingOrigin picks the explicit per-request coordinates when both are
// present and valid, otherwise the session location if resolved. A nil
// origin degrades ranking to the identity pass.
func (app *Application) rankingOrigin(latParam, lngParam string) *geo.Point {
	if latParam != "" && lngParam != "" {
		lat, latErr := strconv.ParseFloat(latParam, 64)
		lng, lngErr := strconv.ParseFloat(lngParam, 64)
		if latErr == nil && lngErr == nil && geo.IsValidLatLng(lat, lng) {
			return &geo.Point{Lat: lat, Lng: lng}
		}
	}

	point, state := app.Locator.Snapshot()
	if state == location.Resolved {
		return &point
	}
	return nil
}

// candidateRequest is the submission payload. Like the snapshot, it accepts
// either explicit coordinates (flat or nested) or a free-text address to be
// geocoded before validation.
type candidateRequest struct {
	Name          string     `json:"name"`
	Skills        []string   `json:"skills"`
	Category      string     `json:"category"`
	Rating        float64    `json:"rating"`
	ContactHandle string     `json:"whatsapp"`
	AvatarKind    string     `json:"profilePicture"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	Location      *geo.Point `json:"location"`
	Address       string     `json:"address"`
}

type submissionError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (app *Application) createProviderHandler(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.writeJSON(w, http.StatusBadRequest, submissionError{Error: "request body is not valid JSON"})
		return
	}

	candidate := directory.Candidate{
		Name:          req.Name,
		Skills:        req.Skills,
		Category:      req.Category,
		Rating:        req.Rating,
		ContactHandle: req.ContactHandle,
		AvatarKind:    req.AvatarKind,
		Address:       req.Address,
	}

	switch {
	case req.Location != nil:
		candidate.Location = req.Location
	case req.Latitude != nil && req.Longitude != nil:
		candidate.Location = &geo.Point{Lat: *req.Latitude, Lng: *req.Longitude}
	case req.Address != "":
		point, err := app.Geocoder.Lookup(r.Context(), req.Address)
		if errors.Is(err, geocode.ErrNotFound) {
			// Geocoding failure blocks submission with a corrective
			// message; nothing is persisted.
			app.writeJSON(w, http.StatusUnprocessableEntity, submissionError{
				Error: "address could not be resolved to a location, please check it and try again",
				Field: "address",
			})
			return
		}
		candidate.Location = &point
	}

	record, err := app.Store.AddRecord(candidate)
	if err != nil {
		var vErr *directory.ValidationError
		if errors.As(err, &vErr) {
			app.writeJSON(w, http.StatusUnprocessableEntity, submissionError{
				Error: vErr.Error(),
				Field: vErr.Field,
			})
			return
		}
		app.Logger.Error("Failed to add provider record", "error", err)
		app.writeJSON(w, http.StatusInternalServerError, submissionError{Error: "failed to persist the record"})
		return
	}

	app.writeJSON(w, http.StatusCreated, record)
}

func (app *Application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, directory.CategoryCatalog())
}

func (app *Application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.Logger.Error("Failed to encode response", "error", err)
	}
}
