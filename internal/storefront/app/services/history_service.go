package services

import (
	"context"

	"github.com/shopspring/decimal"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/models"
	"hamburgueria/internal/xpkg/logger"
)

// HistoryService is the append-only log of completed orders, newest first.
type HistoryService struct {
	logRepo    core.ILogRepo
	maxEntries int
	mylog      logger.Logger
}

// NewHistoryService keeps at most maxEntries entries; zero means unbounded.
func NewHistoryService(logRepo core.ILogRepo, maxEntries int, mylogger logger.Logger) *HistoryService {
	return &HistoryService{
		logRepo:    logRepo,
		maxEntries: maxEntries,
		mylog:      mylogger,
	}
}

func (hs *HistoryService) Append(ctx context.Context, entry models.LogEntry) error {
	mylog := hs.mylog.Action("history_append")

	err := hs.logRepo.Update(ctx, func(entries []models.LogEntry) ([]models.LogEntry, error) {
		next := make([]models.LogEntry, 0, len(entries)+1)
		next = append(next, entry)
		next = append(next, entries...)
		if hs.maxEntries > 0 && len(next) > hs.maxEntries {
			mylog.Debug("Dropping oldest entries", "dropped", len(next)-hs.maxEntries)
			next = next[:hs.maxEntries]
		}
		return next, nil
	})
	if err != nil {
		mylog.Error("Failed to append log entry", err, "order_number", entry.OrderNumber)
		return err
	}
	mylog.Info("Order logged", "order_number", entry.OrderNumber, "total", entry.Total.StringFixed(2))
	return nil
}

func (hs *HistoryService) List(ctx context.Context) ([]models.LogEntry, error) {
	entries, err := hs.logRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	return entries, nil
}

// Find returns the newest entry with the given order number.
func (hs *HistoryService) Find(ctx context.Context, orderNumber int64) (models.LogEntry, bool, error) {
	entries, err := hs.logRepo.Load(ctx)
	if err != nil {
		return models.LogEntry{}, false, err
	}
	for _, e := range entries {
		if e.OrderNumber == orderNumber {
			return e, true, nil
		}
	}
	return models.LogEntry{}, false, nil
}

// Clear drops the whole history. Callers confirm before invoking it.
func (hs *HistoryService) Clear(ctx context.Context) error {
	err := hs.logRepo.Update(ctx, func([]models.LogEntry) ([]models.LogEntry, error) {
		return nil, nil
	})
	if err != nil {
		hs.mylog.Action("history_clear").Error("Failed to clear history", err)
		return err
	}
	hs.mylog.Action("history_clear").Warn("History cleared")
	return nil
}

func (hs *HistoryService) Summary(ctx context.Context) (models.LogSummary, error) {
	entries, err := hs.logRepo.Load(ctx)
	if err != nil {
		return models.LogSummary{}, err
	}
	return Summarize(entries), nil
}

// Summarize returns count, revenue and average ticket. With no entries the
// average is zero and HasData is false.
func Summarize(entries []models.LogEntry) models.LogSummary {
	s := models.LogSummary{
		Count:   len(entries),
		Revenue: decimal.Zero,
		Average: decimal.Zero,
	}
	for _, e := range entries {
		s.Revenue = s.Revenue.Add(e.Total)
	}
	if s.Count == 0 {
		return s
	}
	s.HasData = true
	s.Average = s.Revenue.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	return s
}
