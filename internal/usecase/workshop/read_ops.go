package workshop

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
)

// GetStatus returns the current equipment status snapshot of a job.
func (s *Service) GetStatus(ctx context.Context, jobID string) (domain.EquipmentStatus, error) {
	if err := s.checkCore(ctx); err != nil {
		return domain.EquipmentStatus{}, err
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return domain.EquipmentStatus{}, errJobIDRequired
	}

	if _, err := s.loadJob(ctx, jobID, false); err != nil {
		return domain.EquipmentStatus{}, err
	}
	status, err := s.statuses.GetStatus(ctx, jobID)
	if err != nil {
		return domain.EquipmentStatus{}, mapRepoError(err, jobID)
	}
	return status, nil
}

// GetHistory returns the job's status history, oldest first. Reads go through
// the cache; every committed write for the job evicts its entry.
func (s *Service) GetHistory(ctx context.Context, jobID string) ([]domain.HistoryEntry, error) {
	if err := s.checkCore(ctx); err != nil {
		return nil, err
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, errJobIDRequired
	}

	if cached, ok := s.cachedHistory(ctx, jobID); ok {
		return cached, nil
	}

	if _, err := s.loadJob(ctx, jobID, false); err != nil {
		return nil, err
	}
	entries, err := s.statuses.ListHistory(ctx, jobID)
	if err != nil {
		return nil, errs.Wrapf(err, "list history for job %s", jobID)
	}
	if len(entries) == 0 {
		// Distinguish "no intake yet" from an empty history.
		if _, err := s.statuses.GetStatus(ctx, jobID); err != nil {
			return nil, mapRepoError(err, jobID)
		}
	}

	s.storeHistory(ctx, jobID, entries)
	s.evictIfSuperseded(ctx, jobID, entries)
	return entries, nil
}

func (s *Service) historyCacheKey(jobID string) string {
	return "workshop:" + s.opts.CompanyID + ":history:" + jobID
}

type historyCacheEntry struct {
	ID         string    `json:"id"`
	Seq        uint64    `json:"seq"`
	JobID      string    `json:"job_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangedBy  string    `json:"changed_by"`
	Notes      string    `json:"notes,omitempty"`
}

func (s *Service) cachedHistory(ctx context.Context, jobID string) ([]domain.HistoryEntry, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, found, err := s.cache.Get(ctx, s.historyCacheKey(jobID))
	if err != nil || !found {
		return nil, false
	}

	var rows []historyCacheEntry
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, false
	}

	entries := make([]domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.HistoryEntry{
			ID:         row.ID,
			Seq:        row.Seq,
			JobID:      row.JobID,
			FromStatus: domain.Status(row.FromStatus),
			ToStatus:   domain.Status(row.ToStatus),
			ChangedAt:  row.ChangedAt.UTC(),
			ChangedBy:  row.ChangedBy,
			Notes:      row.Notes,
		})
	}
	return entries, true
}

func (s *Service) storeHistory(ctx context.Context, jobID string, entries []domain.HistoryEntry) {
	if s.cache == nil || len(entries) == 0 {
		return
	}

	rows := make([]historyCacheEntry, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, historyCacheEntry{
			ID:         entry.ID,
			Seq:        entry.Seq,
			JobID:      entry.JobID,
			FromStatus: string(entry.FromStatus),
			ToStatus:   string(entry.ToStatus),
			ChangedAt:  entry.ChangedAt,
			ChangedBy:  entry.ChangedBy,
			Notes:      entry.Notes,
		})
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	s.setCacheBestEffort(ctx, s.historyCacheKey(jobID), string(raw))
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.opts.HistoryCacheTTL); err != nil {
		logging.Warn(
			logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
			"cache set failed",
			slog.String("key", key),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}

// evictIfSuperseded drops a just-stored entry when a write committed between
// the history read and the store. Writes committing later evict on their own.
func (s *Service) evictIfSuperseded(ctx context.Context, jobID string, entries []domain.HistoryEntry) {
	if s.cache == nil || len(entries) == 0 {
		return
	}
	status, err := s.statuses.GetStatus(ctx, jobID)
	if err != nil || !status.UpdatedAt.Equal(entries[len(entries)-1].ChangedAt) {
		s.invalidateHistory(ctx, jobID)
	}
}

// invalidateHistory runs after commit. A failed eviction is logged; the TTL bounds staleness.
func (s *Service) invalidateHistory(ctx context.Context, jobID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.historyCacheKey(jobID)); err != nil {
		logging.Warn(
			logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
			"cache eviction failed",
			slog.String("job_id", jobID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}
