package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/homefleet/safety-monitor/internal/pkg/application/alerts"
	"github.com/homefleet/safety-monitor/internal/pkg/infrastructure/storage"
	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("safety-monitor/api")

// Property identifies one configured property for the status and
// thresholds endpoints.
type Property struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

//go:generate moq -rm -out snapshotstorage_mock.go . SnapshotStorage
type SnapshotStorage interface {
	GetLatestSnapshot(ctx context.Context, propertyID string) (types.Snapshot, error)
	GetLatestSnapshots(ctx context.Context) (map[string]types.Snapshot, error)
	QuerySnapshots(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.Snapshot, error)
	QueryDevices(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Device], error)
	QueryAlerts(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Alert], error)
}

// CycleTrigger requests an immediate collection cycle.
type CycleTrigger interface {
	Trigger()
}

func RegisterHandlers(ctx context.Context, router *chi.Mux, apiKey string, properties []Property, s SnapshotStorage, alertSvc alerts.AlertService, alertCfg *alerts.Config, trigger CycleTrigger) *chi.Mux {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	log := logging.GetFromContext(ctx)

	router.Route("/api/v0", func(r chi.Router) {
		r.Get("/status", getStatusHandler(log, s))
		r.Get("/properties/{propertyID}", getPropertyHandler(log, s))
		r.Get("/properties/{propertyID}/history", getPropertyHistoryHandler(log, s))
		r.Get("/alerts", queryAlertsHandler(log, s))
		r.Get("/thresholds", getThresholdsHandler(log, properties, alertCfg))

		r.Group(func(r chi.Router) {
			r.Use(requireAPIKey(apiKey))

			r.Post("/alerts/{alertID}/resolve", resolveAlertHandler(log, alertSvc))
			r.Post("/collect", triggerCollectHandler(log, trigger))
		})
	})

	return router
}

// requireAPIKey guards mutating endpoints with an X-API-Key header
// check. An empty configured key leaves them open, which is acceptable
// on deployments reachable only over a private overlay network.
func requireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func getStatusHandler(log *slog.Logger, s SnapshotStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-status")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		snapshots, err := s.GetLatestSnapshots(ctx)
		if err != nil {
			requestLogger.Error("unable to fetch snapshots", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		alerts24h, err := s.QueryAlerts(ctx, storage.WithSince(hoursAgo(24)))
		if err != nil {
			requestLogger.Error("unable to fetch alerts", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"properties": snapshots,
			"alerts":     alerts24h.Data,
		})
	}
}

func getPropertyHandler(log *slog.Logger, s SnapshotStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-property")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		propertyID := chi.URLParam(r, "propertyID")
		if propertyID != "" {
			requestLogger = requestLogger.With(slog.String("property_id", propertyID))
		}

		snapshot, err := s.GetLatestSnapshot(ctx, propertyID)
		if errors.Is(err, storage.ErrNoRows) {
			requestLogger.Debug("property has no readings")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			requestLogger.Error("unable to fetch snapshot", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		devices, err := s.QueryDevices(ctx, storage.WithPropertyID(propertyID))
		if err != nil {
			requestLogger.Error("unable to fetch devices", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		propertyAlerts, err := s.QueryAlerts(ctx, storage.WithPropertyID(propertyID), storage.WithSince(hoursAgo(48)))
		if err != nil {
			requestLogger.Error("unable to fetch alerts", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"latest":  snapshot,
			"devices": devices.Data,
			"alerts":  propertyAlerts.Data,
		})
	}
}

func getPropertyHistoryHandler(log *slog.Logger, s SnapshotStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-property-history")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		propertyID := chi.URLParam(r, "propertyID")
		if propertyID != "" {
			requestLogger = requestLogger.With(slog.String("property_id", propertyID))
		}

		hours := 24
		if h := r.URL.Query().Get("hours"); h != "" {
			hours, err = strconv.Atoi(h)
			if err != nil || hours <= 0 {
				requestLogger.Debug("invalid hours parameter", "hours", h)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}

		snapshots, err := s.QuerySnapshots(ctx, storage.WithPropertyID(propertyID), storage.WithSince(hoursAgo(hours)))
		if err != nil {
			requestLogger.Error("unable to fetch snapshot history", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, snapshots)
	}
}

func queryAlertsHandler(log *slog.Logger, s SnapshotStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		hours := 48
		if h := r.URL.Query().Get("hours"); h != "" {
			hours, err = strconv.Atoi(h)
			if err != nil || hours <= 0 {
				requestLogger.Debug("invalid hours parameter", "hours", h)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}

		result, err := s.QueryAlerts(ctx, storage.WithSince(hoursAgo(hours)))
		if err != nil {
			requestLogger.Error("unable to fetch alerts", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, result.Data)
	}
}

func getThresholdsHandler(log *slog.Logger, properties []Property, cfg *alerts.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		_, span := tracer.Start(r.Context(), "get-thresholds")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		result := map[string]any{}

		for _, p := range properties {
			settings := cfg.Resolve(p.ID)
			result[p.ID] = map[string]any{
				"name":                  p.Name,
				"indoor_temp_warning":   settings.Temperature.IndoorWarning,
				"indoor_temp_critical":  settings.Temperature.IndoorCritical,
				"outdoor_temp_warning":  settings.Temperature.OutdoorWarning,
				"outdoor_temp_critical": settings.Temperature.OutdoorCritical,
				"outdoor_sensors":       settings.Temperature.OutdoorSensors,
				"exclude_sensors":       settings.Temperature.ExcludeSensors,
				"battery_low":           settings.Battery.LowThreshold,
				"battery_critical":      settings.Battery.CriticalThreshold,
				"offline_timeout_min":   settings.Offline.TimeoutMinutes,
			}
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func resolveAlertHandler(log *slog.Logger, alertSvc alerts.AlertService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "resolve-alert")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		alertID := chi.URLParam(r, "alertID")
		if alertID != "" {
			requestLogger = requestLogger.With(slog.String("alert_id", alertID))
		}

		err = alertSvc.Resolve(ctx, alertID)
		if errors.Is(err, alerts.ErrAlertNotFound) {
			requestLogger.Debug("alert not found")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			requestLogger.Error("unable to resolve alert", "err", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		requestLogger.Info("alert resolved")
		w.WriteHeader(http.StatusNoContent)
	}
}

func triggerCollectHandler(log *slog.Logger, trigger CycleTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		_, span := tracer.Start(r.Context(), "trigger-collect")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		trigger.Trigger()

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "triggered"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func hoursAgo(hours int) time.Time {
	return time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
}
