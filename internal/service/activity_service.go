package service

import (
	"context"
	"fmt"

	"github.com/shinyyama/leaderboard-backend/internal/model"
	"github.com/shinyyama/leaderboard-backend/internal/webhook"
)

type ActivityResult struct {
	Action  string
	Ignored bool
	Score   *model.UserScore
}

// ActivityService turns a normalized webhook event into a ledger action.
type ActivityService interface {
	Process(ctx context.Context, ev webhook.Event) (*ActivityResult, error)
}

type activityService struct {
	ledger LedgerService
}

func NewActivityService(ledger LedgerService) ActivityService {
	return &activityService{ledger: ledger}
}

func (s *activityService) Process(ctx context.Context, ev webhook.Event) (*ActivityResult, error) {
	if ev.Ignored() {
		return &ActivityResult{Ignored: true}, nil
	}
	settings, err := s.ledger.EnsureTenant(ctx, ev.TenantID)
	if err != nil {
		return nil, err
	}
	u := model.ScoreUpdate{
		TenantID: ev.TenantID,
		UserID:   ev.UserID,
		Username: ev.Username,
		Avatar:   ev.Avatar,
	}

	var rec *model.UserScore
	switch ev.Kind {
	case webhook.KindMembershipValid:
		rec, err = s.ledger.ApplyDelta(ctx, u, int64(settings.PointsPerJoin))
	case webhook.KindPaymentSucceeded:
		rec, err = s.ledger.ApplyDelta(ctx, u, int64(settings.PointsPerMsg))
	case webhook.KindMembershipInvalid:
		// absolute target so repeated invalid events stay at the sentinel
		rec, err = s.ledger.SetAbsoluteTotal(ctx, u, model.DemotedPoints)
	default:
		return nil, fmt.Errorf("unhandled event kind %q", ev.Kind)
	}
	if err != nil {
		return nil, err
	}
	return &ActivityResult{Action: string(ev.Kind), Score: rec}, nil
}
