package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/store"
)

// Band classifies how soon an active MOU expires.
type Band string

const (
	BandUrgent  Band = "urgent"
	BandWarning Band = "warning"
	BandInfo    Band = "info"
)

// ExpiringMOU pairs an active MOU with its days-left count and urgency band.
type ExpiringMOU struct {
	MOU      model.MOU `json:"mou"`
	DaysLeft int       `json:"days_left"`
	Band     Band      `json:"band"`
}

// allowedTransitions defines the manual status graph. Expired records may be
// reactivated after a renewal sets a new expiry date.
var allowedTransitions = map[model.MOUStatus][]model.MOUStatus{
	model.MOUStatusDraft:   {model.MOUStatusPending, model.MOUStatusActive},
	model.MOUStatusPending: {model.MOUStatusDraft, model.MOUStatusActive},
	model.MOUStatusActive:  {model.MOUStatusExpired},
	model.MOUStatusExpired: {model.MOUStatusActive},
}

// Manager drives MOU status transitions and the expiry sweep.
type Manager struct {
	store store.Store
	cfg   config.LifecycleConfig
}

func NewManager(st store.Store, cfg config.LifecycleConfig) *Manager {
	return &Manager{store: st, cfg: cfg}
}

// Transition applies a manual status change after validating it against the
// status graph, and records it in the activity log.
func (m *Manager) Transition(ctx context.Context, id string, to model.MOUStatus, actor string) (*model.MOU, error) {
	mou, err := m.store.GetMOU(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "lifecycle: transition %s", id)
	}
	if mou.Status == to {
		return mou, nil
	}
	if !transitionAllowed(mou.Status, to) {
		return nil, eris.Errorf("lifecycle: cannot move mou %s from %s to %s", id, mou.Status, to)
	}

	if err := m.store.UpdateMOUStatus(ctx, id, to); err != nil {
		return nil, eris.Wrapf(err, "lifecycle: transition %s", id)
	}
	if _, err := m.store.AppendActivity(ctx, model.ActivityEntry{
		MOUID:       id,
		Action:      model.ActionStatusChange,
		Actor:       actor,
		Description: fmt.Sprintf("%s -> %s", mou.Status, to),
	}); err != nil {
		return nil, eris.Wrapf(err, "lifecycle: log transition %s", id)
	}

	mou.Status = to
	return mou, nil
}

// SweepExpired marks every active MOU whose expiry date has passed as
// expired, logging an auto_expired activity entry per record. Returns the
// records that were expired.
func (m *Manager) SweepExpired(ctx context.Context, now time.Time) ([]model.MOU, error) {
	cutoff := truncateToDay(now)
	candidates, err := m.store.ListActiveExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, eris.Wrap(err, "lifecycle: sweep")
	}

	var expired []model.MOU
	for _, mou := range candidates {
		if err := m.store.UpdateMOUStatus(ctx, mou.ID, model.MOUStatusExpired); err != nil {
			return expired, eris.Wrapf(err, "lifecycle: expire mou %s", mou.ID)
		}
		if _, err := m.store.AppendActivity(ctx, model.ActivityEntry{
			MOUID:       mou.ID,
			Action:      model.ActionAutoExpired,
			Description: fmt.Sprintf("expiry date %s passed", mou.ExpiryDate.Format("2006-01-02")),
		}); err != nil {
			return expired, eris.Wrapf(err, "lifecycle: log expiry %s", mou.ID)
		}
		mou.Status = model.MOUStatusExpired
		expired = append(expired, mou)
	}

	if len(expired) > 0 {
		zap.L().Info("expiry sweep complete", zap.Int("expired", len(expired)))
	}
	return expired, nil
}

// ExpiringSoon returns active MOUs expiring within the info window, grouped
// into urgency bands. Records whose expiry has already passed are excluded;
// SweepExpired handles those.
func (m *Manager) ExpiringSoon(ctx context.Context, now time.Time) ([]ExpiringMOU, error) {
	horizon := truncateToDay(now).AddDate(0, 0, m.cfg.InfoDays+1)
	candidates, err := m.store.ListActiveExpiringBefore(ctx, horizon)
	if err != nil {
		return nil, eris.Wrap(err, "lifecycle: expiring soon")
	}

	var out []ExpiringMOU
	for _, mou := range candidates {
		days, ok := mou.DaysUntilExpiry(now)
		if !ok || days < 0 {
			continue
		}
		out = append(out, ExpiringMOU{MOU: mou, DaysLeft: days, Band: m.band(days)})
	}
	return out, nil
}

func (m *Manager) band(daysLeft int) Band {
	switch {
	case daysLeft <= m.cfg.UrgentDays:
		return BandUrgent
	case daysLeft <= m.cfg.WarningDays:
		return BandWarning
	default:
		return BandInfo
	}
}

func transitionAllowed(from, to model.MOUStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
