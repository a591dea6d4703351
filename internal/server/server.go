// Package server exposes the offer calculator over HTTP. Computed offer sets
// are memoized in a cache keyed by the property and calculator tuning.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/cache"
	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
	"github.com/daisuke-ai/maina-calculator-sub000/internal/dynamic"
	"github.com/daisuke-ai/maina-calculator-sub000/internal/offer"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/output"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger      *zap.Logger
	store       cache.Store
	conf        *config.Configuration
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the offer API.
func NewHandler(logger *zap.Logger, store cache.Store, conf *config.Configuration, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.DefaultConfiguration()
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}

	maxBodySize := conf.Server.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		store:       store,
		conf:        conf,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Offer computation endpoint
	mux.HandleFunc("/api/offers", h.handleOffers)

	// Single-field snapshot edit endpoint
	mux.HandleFunc("/api/offers/edit", h.handleEdit)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type offersRequest struct {
	Property config.PropertyData    `json:"property"`
	Config   map[string]interface{} `json:"config,omitempty"`
}

type offersResponse struct {
	RequestID string              `json:"requestId"`
	Offers    []offer.OfferResult `json:"offers"`
	Snapshots []snapshotPayload   `json:"snapshots"`
	CSV       string              `json:"csv"`
	Warnings  []string            `json:"warnings,omitempty"`
	Cached    bool                `json:"cached"`
	Duration  string              `json:"duration"`
}

type editRequest struct {
	Snapshot dynamic.Snapshot       `json:"snapshot"`
	Field    string                 `json:"field"`
	Value    float64                `json:"value"`
	Property config.PropertyData    `json:"property"`
	Config   map[string]interface{} `json:"config,omitempty"`
}

type editResponse struct {
	RequestID string          `json:"requestId"`
	Snapshot  snapshotPayload `json:"snapshot"`
	Duration  string          `json:"duration"`
}

// snapshotPayload wraps a snapshot for JSON transport. An infinite
// amortization cannot cross the wire as a number, so it travels as a zeroed
// field plus an explicit flag.
type snapshotPayload struct {
	dynamic.Snapshot
	AmortizationUndefined bool `json:"amortizationUndefined,omitempty"`
}

func wireSnapshot(snap dynamic.Snapshot) snapshotPayload {
	payload := snapshotPayload{Snapshot: snap}
	if math.IsInf(snap.AmortizationYears, 1) {
		payload.Snapshot.AmortizationYears = 0
		payload.AmortizationUndefined = true
	}
	return payload
}

func (h *handler) handleOffers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleOffers"
	start := time.Now()
	requestID := uuid.NewString()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var payload offersRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	warnings, err := payload.Property.Validate()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid property: %v", err), op)
		return
	}

	conf, err := h.effectiveConfiguration(payload.Config)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings = append(warnings, conf.ValidateConfiguration()...)

	key := cache.Key(payload.Property, conf.Calculator)
	results, cached := h.lookupCached(r, key, op)
	if !cached {
		engine := offer.NewEngine(h.logger, conf.Calculator)
		computed := engine.ComputeAllOffers(payload.Property)
		results = computed[:]
		h.storeCached(r, key, results, op)
	}

	snapshots := make([]snapshotPayload, 0, len(results))
	for _, result := range results {
		if result.IsBuyable {
			snapshots = append(snapshots, wireSnapshot(dynamic.FromOffer(result, conf.Calculator)))
		}
	}

	elapsed := time.Since(start)
	h.logger.Info("offers computed",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.Bool("cached", cached),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, offersResponse{
		RequestID: requestID,
		Offers:    results,
		Snapshots: snapshots,
		CSV:       output.CsvString(results),
		Warnings:  warnings,
		Cached:    cached,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleEdit"
	start := time.Now()
	requestID := uuid.NewString()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var payload editRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	if _, err := payload.Property.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid property: %v", err), op)
		return
	}

	conf, err := h.effectiveConfiguration(payload.Config)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	engine := dynamic.NewEngine(h.logger, conf.Calculator)
	next, err := engine.EditField(payload.Snapshot, payload.Field, payload.Value, payload.Property)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("snapshot edited",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.String("field", payload.Field),
		zap.Bool("isValid", next.IsValid),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, editResponse{
		RequestID: requestID,
		Snapshot:  wireSnapshot(next),
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// effectiveConfiguration merges request-supplied overrides over the process
// configuration; the overrides travel as a JSON object and are re-read
// through the same YAML path file-based configs use.
func (h *handler) effectiveConfiguration(overrides map[string]interface{}) (*config.Configuration, error) {
	if len(overrides) == 0 {
		return h.conf, nil
	}

	configBytes, err := yaml.Marshal(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration overrides: %v", err)
	}
	conf, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		return nil, err
	}
	return conf, nil
}

// lookupCached fetches a memoized offer set; any cache failure is treated as
// a miss.
func (h *handler) lookupCached(r *http.Request, key string, op string) ([]offer.OfferResult, bool) {
	value, ok, err := h.store.Get(r.Context(), key)
	if err != nil {
		h.logger.Warn("cache lookup failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var results []offer.OfferResult
	if err := json.Unmarshal(value, &results); err != nil {
		h.logger.Warn("cache entry corrupt",
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, false
	}
	return results, true
}

func (h *handler) storeCached(r *http.Request, key string, results []offer.OfferResult, op string) {
	value, err := json.Marshal(results)
	if err != nil {
		h.logger.Warn("failed to encode offers for cache",
			zap.String("op", op),
			zap.Error(err),
		)
		return
	}
	if err := h.store.Set(r.Context(), key, value, cache.DefaultTTL); err != nil {
		h.logger.Warn("cache store failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("offer request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
