package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/shinyyama/leaderboard-backend/internal/model"
)

var sampleNames = []string{
	"PlayerOne",
	"WhopKing",
	"AlphaRacer",
	"RankQueen",
	"SpeedRunner",
	"BuilderX",
	"MintMaster",
	"GrindLord",
	"LoopGuru",
	"ZenithZero",
}

// DemoSeeder fills an empty tenant with sample members so a fresh install
// has something to rank.
type DemoSeeder struct {
	ledger LedgerService
	rnd    *rand.Rand
}

func NewDemoSeeder(ledger LedgerService, rnd *rand.Rand) *DemoSeeder {
	return &DemoSeeder{ledger: ledger, rnd: rnd}
}

// Seed provisions tenantID and, when it has no members, inserts 5 to 10
// sample users. It returns the number of users created.
func (s *DemoSeeder) Seed(ctx context.Context, tenantID string, force bool) (int, error) {
	if _, err := s.ledger.EnsureTenant(ctx, tenantID); err != nil {
		return 0, err
	}
	cnt, err := s.ledger.CountUsers(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if cnt > 0 && !force {
		return 0, nil
	}

	names := append([]string(nil), sampleNames...)
	s.rnd.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	names = names[:5+s.rnd.Intn(6)]

	for i, name := range names {
		slug := strings.ToLower(name)
		avatar := fmt.Sprintf("https://avatar.vercel.sh/%s", slug)
		u := model.ScoreUpdate{
			TenantID: tenantID,
			UserID:   "seed-" + slug,
			Username: name,
			Avatar:   &avatar,
		}
		points := int64(250 + i*75 + s.rnd.Intn(200))
		if _, err := s.ledger.SetAbsoluteTotal(ctx, u, points); err != nil {
			return i, fmt.Errorf("seed %s: %w", u.UserID, err)
		}
	}
	return len(names), nil
}
