package service

import (
	"context"
	"fmt"
	"time"

	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/store"

	"github.com/rs/zerolog"
)

type HallOfFameService struct {
	store  *store.FallbackingStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewHallOfFameService(st *store.FallbackingStore, logger zerolog.Logger) *HallOfFameService {
	return &HallOfFameService{store: st, logger: logger, now: time.Now}
}

// Update credits the period champion and raises peak records the delta beats.
// An empty delta changes nothing and writes nothing.
func (s *HallOfFameService) Update(ctx context.Context, period domain.PeriodType, entries []domain.DeltaEntry) error {
	if err := period.Validate(); err != nil {
		return err
	}
	if len(entries) == 0 {
		s.logger.Debug().Str("period_type", string(period)).Msg("no active players, hall of fame unchanged")
		return nil
	}

	hof, _, err := s.store.GetHallOfFame(ctx)
	if err != nil {
		return fmt.Errorf("failed to load hall of fame: %w", err)
	}

	ApplyHallOfFame(hof, period, entries, s.now())

	backend, err := s.store.SaveHallOfFame(ctx, hof)
	if err != nil {
		s.logger.Error().Err(err).Str("period_type", string(period)).Msg("failed to save hall of fame")
		return fmt.Errorf("failed to save hall of fame: %w", err)
	}

	s.logger.Info().
		Str("period_type", string(period)).
		Str("backend", string(backend)).
		Msg("hall of fame updated")
	return nil
}

func (s *HallOfFameService) Get(ctx context.Context) (*domain.HallOfFame, error) {
	hof, _, err := s.store.GetHallOfFame(ctx)
	if err != nil {
		return nil, err
	}
	return hof, nil
}

// ApplyHallOfFame mutates hof in place. The champion is the top scorer, first in
// rank order on ties. A peak record moves only when strictly beaten.
func ApplyHallOfFame(hof *domain.HallOfFame, period domain.PeriodType, entries []domain.DeltaEntry, now time.Time) {
	ranked := byRank(entries)
	if len(ranked) == 0 {
		return
	}

	top, _ := recordLeader(ranked, domain.RecordHighestScore)
	hof.ChampionsFor(period)[displayName(top)]++

	if hof.Records == nil {
		hof.Records = map[string]domain.PeakRecord{}
	}
	for _, record := range domain.TrackedRecords {
		leader, value := recordLeader(ranked, record)
		if current, ok := hof.Records[record]; ok && value <= current.Value {
			continue
		}
		hof.Records[record] = domain.PeakRecord{PlayerName: displayName(leader), Value: value, AchievedAt: now.UTC()}
	}
}

// recordLeader returns the first ranked entry holding the highest value for record.
func recordLeader(ranked []domain.DeltaEntry, record string) (domain.DeltaEntry, int) {
	leader, best := ranked[0], recordValue(ranked[0], record)
	for _, e := range ranked[1:] {
		if v := recordValue(e, record); v > best {
			leader, best = e, v
		}
	}
	return leader, best
}

func recordValue(e domain.DeltaEntry, record string) int {
	switch record {
	case domain.RecordHighestScore:
		return e.ScoreDelta
	case domain.RecordHighestKills:
		return e.KillsDelta
	default:
		return 0
	}
}
