package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/metrics"
	"github.com/lendhub/leaddesk/pkg/models"
)

// PipelineStats is a snapshot of the lead pipeline
type PipelineStats struct {
	TotalLeads int            `json:"total_leads"`
	ByStatus   map[string]int `json:"by_status"`
	StaleNew   int            `json:"stale_new"` // still New after the reminder delay
}

// PipelineMonitor reports pipeline health to logs and Prometheus
type PipelineMonitor struct {
	repo      domain.LeadRepository
	metrics   *metrics.Metrics
	dbStats   func() int
	staleDays int
	logger    *log.Logger
	now       func() time.Time
}

// NewPipelineMonitor creates a monitor. metrics and dbStats may be nil.
func NewPipelineMonitor(repo domain.LeadRepository, m *metrics.Metrics, dbStats func() int, staleDays int, logger *log.Logger) *PipelineMonitor {
	if logger == nil {
		logger = log.Default()
	}

	return &PipelineMonitor{
		repo:      repo,
		metrics:   m,
		dbStats:   dbStats,
		staleDays: staleDays,
		logger:    logger,
		now:       time.Now,
	}
}

// CollectStats counts leads per status and publishes the gauges
func (m *PipelineMonitor) CollectStats(ctx context.Context) (*PipelineStats, error) {
	leads, err := m.repo.Select(ctx, models.LeadQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}

	stats := &PipelineStats{
		TotalLeads: len(leads),
		ByStatus:   make(map[string]int, len(models.LeadStatuses)),
	}
	for _, s := range models.LeadStatuses {
		stats.ByStatus[string(s)] = 0
	}

	cutoff := m.now().AddDate(0, 0, -m.staleDays)
	for _, l := range leads {
		stats.ByStatus[string(l.Status)]++
		if l.Status == models.StatusNew && l.CreatedAt.Before(cutoff) {
			stats.StaleNew++
		}
	}

	m.metrics.SetLeadsByStatus(stats.ByStatus)
	if m.dbStats != nil {
		m.metrics.UpdateDBConnections(float64(m.dbStats()))
	}

	return stats, nil
}
