package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"leaderboard-tracker/internal/constants"
	"leaderboard-tracker/internal/domain"
	"leaderboard-tracker/internal/store"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// HTTPSource pulls stats from the profile service API and mirrors every
// successful read into the store. A failed fetch is returned as an error; the
// mirror is never served in its place.
type HTTPSource struct {
	url         string
	apiKey      string
	client      *fasthttp.Client
	store       *store.FallbackingStore
	logger      zerolog.Logger
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
	now         func() time.Time
}

type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

type PlayersResponse struct {
	Players []PlayerData `json:"players"`
}

type PlayerData struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Kills      int     `json:"kills"`
	Deaths     int     `json:"deaths"`
	Revives    int     `json:"revives"`
	KDRatio    float64 `json:"kd_ratio"`
}

func NewHTTPSource(url, apiKey string, st *store.FallbackingStore, logger zerolog.Logger) *HTTPSource {
	return &HTTPSource{
		url:    url,
		apiKey: apiKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

func (s *HTTPSource) GetRateLimitInfo() RateLimitInfo {
	s.rateLimitMu.RLock()
	defer s.rateLimitMu.RUnlock()
	return s.rateLimit
}

func (s *HTTPSource) ListActivePlayers(ctx context.Context) ([]domain.PlayerStat, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	resp, err := s.fetch(apiCtx)
	if err != nil {
		s.logger.Error().Err(err).Str("url", s.url).Msg("failed to fetch stats")
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}

	players := make([]domain.PlayerStat, len(resp.Players))
	for i, p := range resp.Players {
		players[i] = domain.PlayerStat{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			Score:      p.Score,
			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Revives:    p.Revives,
			KDRatio:    p.KDRatio,
		}
	}

	backend, err := s.store.SavePlayerStats(ctx, players, s.now())
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to mirror fetched stats")
	} else {
		s.logger.Debug().Int("count", len(players)).Str("backend", string(backend)).Msg("mirrored fetched stats")
	}

	return players, nil
}

func (s *HTTPSource) fetch(ctx context.Context) (*PlayersResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", s.apiKey)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := s.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := s.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	s.updateRateLimit(resp)

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result PlayersResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}
	return &result, nil
}

func (s *HTTPSource) updateRateLimit(resp *fasthttp.Response) {
	s.rateLimitMu.Lock()
	defer s.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-Ratelimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			s.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Ratelimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			s.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-Ratelimit-Reset")); reset != "" {
		if val, err := strconv.Atoi(reset); err == nil {
			s.rateLimit.Reset = val
		}
	}
	s.rateLimit.UpdatedAt = s.now()
}
