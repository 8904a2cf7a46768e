package service

import (
	"testing"

	"github.com/shinyyama/leaderboard-backend/internal/metrics"
	"github.com/shinyyama/leaderboard-backend/internal/repository"
	"github.com/shinyyama/leaderboard-backend/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	ledger  LedgerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.NewDB(t)
	m := metrics.New()
	ledger := NewLedgerService(
		repository.NewSettingsRepository(conn),
		repository.NewScoreRepository(conn),
		DefaultPoints,
		m,
	)
	return &fixture{db: conn, metrics: m, ledger: ledger}
}

func intPtr(v int) *int { return &v }
