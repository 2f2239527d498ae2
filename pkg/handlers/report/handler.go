// Package report exposes the report pipeline over HTTP.
package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sell-tools/margin-atlas/pkg/adapters"
	"github.com/sell-tools/margin-atlas/pkg/models/api"
	"github.com/sell-tools/margin-atlas/pkg/services/config"
	"github.com/sell-tools/margin-atlas/pkg/services/report"
)

const defaultDays = 7

type Handler struct {
	reports  report.Service
	registry config.Registry
}

func NewHandler(reports report.Service, registry config.Registry) *Handler {
	return &Handler{reports: reports, registry: registry}
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	accounts, err := h.registry.GetAccounts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list accounts")
		http.Error(w, "failed to list accounts", http.StatusInternalServerError)
		return
	}

	response := make([]api.Account, 0, len(accounts))
	for _, acc := range accounts {
		response = append(response, adapters.MapAccountConfigToApi(acc))
	}

	writeJSON(w, logger, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	account := chi.URLParam(r, "account")

	days := defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	result, err := h.reports.BuildReport(ctx, account, days)
	if err != nil {
		logger.Error().Err(err).Str("account", account).Msg("failed to build report")
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrAccountNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, "failed to build report", status)
		return
	}

	writeJSON(w, logger, adapters.MapSkuReportDomainToApi(result))
}

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}
