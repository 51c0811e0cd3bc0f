package rankings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/de-tools/ngo-atlas/pkg/adapters"
	"github.com/de-tools/ngo-atlas/pkg/models/api"
	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/de-tools/ngo-atlas/pkg/models/store"
	"github.com/de-tools/ngo-atlas/pkg/services/ranking"
	"github.com/rs/zerolog"
)

// FinanceStore is the slice of the persistence layer the handler uses.
type FinanceStore interface {
	GetRecords(ctx context.Context) ([]store.FinancialRecord, error)
	SaveRun(ctx context.Context, meta store.RankRunMeta, rows []store.RankedRow) error
	GetLatestRun(ctx context.Context) (*store.RankRunMeta, []store.RankedRow, error)
}

type Handler struct {
	engine  *ranking.Engine
	finance FinanceStore
}

func NewHandler(engine *ranking.Engine, finance FinanceStore) *Handler {
	return &Handler{
		engine:  engine,
		finance: finance,
	}
}

func (h *Handler) ListBands(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	response := make([]api.Band, 0, len(h.engine.Config().Bands))
	for _, b := range h.engine.Config().Bands {
		response = append(response, adapters.MapBandDomainToApi(b))
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode bands")
	}
}

// GetRankings serves the latest persisted run, optionally filtered to one band.
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	band := r.URL.Query().Get("band")

	meta, rows, err := h.finance.GetLatestRun(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load latest rank run")
		http.Error(w, "failed to load rankings", http.StatusInternalServerError)
		return
	}
	if meta == nil {
		http.Error(w, "no rank run available", http.StatusNotFound)
		return
	}

	response := api.RankRun{ID: meta.ID, GeneratedAt: meta.GeneratedAt, Results: []api.RankedResult{}}
	for _, row := range rows {
		if band != "" && row.Band != band {
			continue
		}
		response.Results = append(response.Results,
			adapters.MapRankedResultDomainToApi(adapters.MapStoreRowToDomainResult(row)))
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Str("band", band).Msg("failed to encode rankings")
	}
}

// TriggerRun ranks the stored records as one batch and persists the result.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	rows, err := h.finance.GetRecords(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load financial records")
		http.Error(w, "failed to load financial records", http.StatusInternalServerError)
		return
	}

	records := make([]domain.FinancialRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, adapters.MapStoreRecordToDomain(row))
	}

	run, err := h.engine.Run(ctx, records)
	if err != nil {
		logger.Error().Err(err).Msg("ranking batch failed")
		http.Error(w, "ranking batch failed", http.StatusInternalServerError)
		return
	}

	ordinals := make(map[string]int, len(h.engine.Config().Bands))
	for i, b := range h.engine.Config().Bands {
		ordinals[b.Name] = i
	}
	resultRows := make([]store.RankedRow, 0, len(run.Results))
	for _, result := range run.Results {
		resultRows = append(resultRows, adapters.MapDomainResultToStoreRow(run.ID, ordinals[result.Band], result))
	}
	meta := store.RankRunMeta{
		ID:              run.ID,
		GeneratedAt:     run.GeneratedAt,
		RejectedRecords: len(run.Warnings),
	}
	if err := h.finance.SaveRun(ctx, meta, resultRows); err != nil {
		logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to persist rank run")
		http.Error(w, "failed to persist rank run", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(adapters.MapRankRunDomainToApi(run)); err != nil {
		logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to encode rank run")
	}
}
