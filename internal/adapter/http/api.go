package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"

	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/provider"
	"github.com/couchcryptid/date-venue-service/internal/suggest"
)

// VenueService is the venue client surface exposed over HTTP.
type VenueService interface {
	SearchVenues(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error)
	SearchByCategory(ctx context.Context, category domain.Category, params domain.SearchParams) ([]domain.Venue, error)
	GetDateVenues(ctx context.Context, lat, lng float64, radius int) (domain.DateVenues, error)
	GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error)
	CurrentProviderType() domain.ProviderType
	SwitchProvider(t domain.ProviderType, cfg provider.Config) error
}

// SuggestionService records venue suggestions.
type SuggestionService interface {
	Suggest(ctx context.Context, req suggest.Request) (domain.Suggestion, error)
}

// UserIDHeader carries the authenticated member id on suggestion requests.
const UserIDHeader = "X-User-ID"

// API serves the /v1 venue routes.
type API struct {
	venues         VenueService
	providerConfig func(domain.ProviderType) provider.Config
	suggestions    SuggestionService
	logger         *slog.Logger
}

// NewAPI creates the venue API. providerConfig supplies the credentials used
// when switching providers; suggestions may be nil to disable that route.
func NewAPI(venues VenueService, providerConfig func(domain.ProviderType) provider.Config, suggestions SuggestionService, logger *slog.Logger) *API {
	return &API{
		venues:         venues,
		providerConfig: providerConfig,
		suggestions:    suggestions,
		logger:         logger,
	}
}

func (a *API) register(r *mux.Router) {
	// Fixed paths first: /venues/{id} would otherwise swallow them.
	r.HandleFunc("/venues/search", a.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/venues/date", a.handleDateVenues).Methods(http.MethodGet)
	r.HandleFunc("/venues/category/{category}", a.handleCategory).Methods(http.MethodGet)
	r.HandleFunc("/venues/{id}", a.handleDetails).Methods(http.MethodGet)
	r.HandleFunc("/provider", a.handleGetProvider).Methods(http.MethodGet)
	r.HandleFunc("/provider", a.handleSwitchProvider).Methods(http.MethodPut)
	r.HandleFunc("/suggestions", a.handleSuggest).Methods(http.MethodPost)
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	result, err := a.venues.SearchVenues(r.Context(), params)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (a *API) handleDateVenues(w http.ResponseWriter, r *http.Request) {
	params, err := parsePoint(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	venues, err := a.venues.GetDateVenues(r.Context(), params.Latitude, params.Longitude, params.Radius)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, venues)
}

func (a *API) handleCategory(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	params, err := parseSearchParams(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	venues, err := a.venues.SearchByCategory(r.Context(), category, params)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"category": category, "venues": venues})
}

func (a *API) handleDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	venue, err := a.venues.GetVenueDetails(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if venue == nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("venue %q not found", id)})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, venue)
}

func (a *API) handleGetProvider(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"provider": string(a.venues.CurrentProviderType())})
}

func (a *API) handleSwitchProvider(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Provider string `json:"provider"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, r, fmt.Errorf("%w: malformed body: %v", domain.ErrInvalidParams, err))
		return
	}
	t, err := domain.ParseProviderType(body.Provider)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.venues.SwitchProvider(t, a.providerConfig(t)); err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"provider": string(t)})
}

func (a *API) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if a.suggestions == nil {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "suggestions are not enabled"})
		return
	}

	var req suggest.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, fmt.Errorf("%w: malformed body: %v", domain.ErrInvalidParams, err))
		return
	}
	req.UserID = r.Header.Get(UserIDHeader)

	s, err := a.suggestions.Suggest(r.Context(), req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, s)
}

// writeError maps error kinds to status codes.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *domain.UpstreamError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidParams), errors.Is(err, domain.ErrUnknownProvider):
		status = http.StatusBadRequest
	case errors.Is(err, suggest.ErrVenueNotFound):
		status = http.StatusNotFound
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		a.logger.Error("venue request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}

func parsePoint(r *http.Request) (domain.SearchParams, error) {
	q := r.URL.Query()
	var p domain.SearchParams
	var err error

	if p.Latitude, err = requiredFloat(q.Get("lat"), "lat"); err != nil {
		return p, err
	}
	if p.Longitude, err = requiredFloat(q.Get("lng"), "lng"); err != nil {
		return p, err
	}
	if p.Radius, err = optionalInt(q.Get("radius"), "radius"); err != nil {
		return p, err
	}
	return p, nil
}

func parseSearchParams(r *http.Request) (domain.SearchParams, error) {
	p, err := parsePoint(r)
	if err != nil {
		return p, err
	}
	q := r.URL.Query()

	p.Keyword = q.Get("keyword")
	if c := q.Get("category"); c != "" {
		if p.Category, err = domain.ParseCategory(c); err != nil {
			return p, err
		}
	}
	if p.PriceLevel, err = optionalInt(q.Get("price"), "price"); err != nil {
		return p, err
	}
	if p.Limit, err = optionalInt(q.Get("limit"), "limit"); err != nil {
		return p, err
	}
	if v := q.Get("open_now"); v != "" {
		if p.OpenNow, err = strconv.ParseBool(v); err != nil {
			return p, fmt.Errorf("%w: open_now must be a boolean", domain.ErrInvalidParams)
		}
	}
	return p, nil
}

func requiredFloat(s, name string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidParams, name)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidParams, name)
	}
	return f, nil
}

func optionalInt(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidParams, name)
	}
	return n, nil
}
