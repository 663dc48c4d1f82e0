package datagolf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/pgctour/fantasy-golf/internal/platform/logging"
	"github.com/pgctour/fantasy-golf/internal/platform/resilience"
	"github.com/pgctour/fantasy-golf/internal/usecase"
)

const (
	defaultBaseURL = "https://feeds.datagolf.com"
	defaultTour    = "pga"

	fieldPath    = "/field-updates"
	rankingsPath = "/preds/get-dg-rankings"
	inPlayPath   = "/preds/in-play"
)

var apiKeyParamRegex = regexp.MustCompile(`key=[^&\s"']+`)
var errDataGolfTransient = crerr.New("datagolf transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Key            string
	Tour           string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls tournament fields, world rankings and live scoring from the
// golf data feed. Identical in-flight requests are coalesced and repeated
// provider failures trip a circuit breaker so a flaky feed cannot pile up
// hung cycles.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	key            string
	tour           string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var _ usecase.SnapshotProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	tour := strings.TrimSpace(cfg.Tour)
	if tour == "" {
		tour = defaultTour
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		key:            strings.TrimSpace(cfg.Key),
		tour:           tour,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type fieldEnvelope struct {
	EventName    string      `json:"event_name"`
	EventID      any         `json:"event_id"`
	CurrentRound int         `json:"current_round"`
	Field        []fieldItem `json:"field"`
}

type fieldItem struct {
	DGID       int64  `json:"dg_id"`
	PlayerName string `json:"player_name"`
	Country    string `json:"country"`
	R1TeeTime  string `json:"r1_teetime"`
	R2TeeTime  string `json:"r2_teetime"`
	R3TeeTime  string `json:"r3_teetime"`
	R4TeeTime  string `json:"r4_teetime"`
	DKSalary   int64  `json:"dk_salary"`
}

type rankingsEnvelope struct {
	Rankings []rankingItem `json:"rankings"`
}

type rankingItem struct {
	DGID            int64   `json:"dg_id"`
	PlayerName      string  `json:"player_name"`
	OWGRRank        int     `json:"owgr_rank"`
	DGSkillEstimate float64 `json:"dg_skill_estimate"`
}

type inPlayEnvelope struct {
	Info inPlayInfo   `json:"info"`
	Data []inPlayItem `json:"data"`
}

type inPlayInfo struct {
	EventName     string `json:"event_name"`
	EventID       any    `json:"event_id"`
	CurrentRound  int    `json:"current_round"`
	EventFinished bool   `json:"event_finished"`
}

type inPlayItem struct {
	DGID     int64   `json:"dg_id"`
	Position string  `json:"current_pos"`
	Today    *int    `json:"today"`
	Thru     *int    `json:"thru"`
	Total    *int    `json:"current_score"`
	R1       *int    `json:"R1"`
	R2       *int    `json:"R2"`
	R3       *int    `json:"R3"`
	R4       *int    `json:"R4"`
	MakeCut  float64 `json:"make_cut"`
	Top10    float64 `json:"top_10"`
	Win      float64 `json:"win"`
}

// FetchSnapshot pulls one full live snapshot: field, rankings and in-play
// scoring for the given provider event.
func (c *Client) FetchSnapshot(ctx context.Context, providerEventID string) (usecase.Snapshot, error) {
	snap, err := c.FetchField(ctx, providerEventID)
	if err != nil {
		return usecase.Snapshot{}, err
	}

	var live inPlayEnvelope
	if err := c.doJSON(ctx, inPlayPath, map[string]string{"tour": c.tour}, &live); err != nil {
		return usecase.Snapshot{}, fmt.Errorf("fetch in-play event=%s: %w", providerEventID, err)
	}

	if live.Info.CurrentRound > snap.CurrentRound {
		snap.CurrentRound = live.Info.CurrentRound
	}
	snap.EventFinished = live.Info.EventFinished
	if name := strings.TrimSpace(live.Info.EventName); name != "" {
		snap.EventName = name
	}

	snap.LiveStats = make([]usecase.LiveStatEntry, 0, len(live.Data))
	for _, item := range live.Data {
		if item.DGID <= 0 {
			continue
		}
		position := strings.TrimSpace(item.Position)
		snap.LiveStats = append(snap.LiveStats, usecase.LiveStatEntry{
			ProviderID:   strconv.FormatInt(item.DGID, 10),
			PositionText: position,
			Status:       specialStatusFromPosition(position),
			Today:        item.Today,
			Thru:         item.Thru,
			Total:        item.Total,
			RoundScores:  [4]*int{item.R1, item.R2, item.R3, item.R4},
			MakeCut:      item.MakeCut > 0,
			TopTen:       item.Top10 > 0,
			Win:          item.Win > 0,
		})
	}

	return snap, nil
}

// FetchField pulls the entrant field with tee times plus current rankings,
// without live scoring. Used by pre-tournament jobs.
func (c *Client) FetchField(ctx context.Context, providerEventID string) (usecase.Snapshot, error) {
	providerEventID = strings.TrimSpace(providerEventID)
	if providerEventID == "" {
		return usecase.Snapshot{}, fmt.Errorf("provider event id is required")
	}

	var field fieldEnvelope
	query := map[string]string{"tour": c.tour, "event_id": providerEventID}
	if err := c.doJSON(ctx, fieldPath, query, &field); err != nil {
		return usecase.Snapshot{}, fmt.Errorf("fetch field event=%s: %w", providerEventID, err)
	}

	snap := usecase.Snapshot{
		ProviderEventID: providerEventID,
		EventName:       strings.TrimSpace(field.EventName),
		CurrentRound:    field.CurrentRound,
		Field:           make([]usecase.FieldEntrant, 0, len(field.Field)),
	}
	for _, item := range field.Field {
		if item.DGID <= 0 {
			continue
		}
		snap.Field = append(snap.Field, usecase.FieldEntrant{
			ProviderID: strconv.FormatInt(item.DGID, 10),
			Name:       strings.TrimSpace(item.PlayerName),
			Country:    strings.TrimSpace(item.Country),
			TeeTimes:   [4]string{item.R1TeeTime, item.R2TeeTime, item.R3TeeTime, item.R4TeeTime},
			Salary:     item.DKSalary,
		})
	}

	rankings, err := c.FetchRankings(ctx)
	if err != nil {
		// Rankings enrich grouping only; a field without them is still usable.
		c.logger.WarnContext(ctx, "fetch rankings for field failed, continuing without", "event_id", providerEventID, "error", err)
	} else {
		snap.Rankings = rankings
	}

	return snap, nil
}

// FetchRankings pulls the current world ranking table.
func (c *Client) FetchRankings(ctx context.Context) ([]usecase.RankingEntry, error) {
	var envelope rankingsEnvelope
	if err := c.doJSON(ctx, rankingsPath, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch rankings: %w", err)
	}

	out := make([]usecase.RankingEntry, 0, len(envelope.Rankings))
	for _, item := range envelope.Rankings {
		if item.DGID <= 0 {
			continue
		}
		out = append(out, usecase.RankingEntry{
			ProviderID:    strconv.FormatInt(item.DGID, 10),
			WorldRank:     item.OWGRRank,
			SkillEstimate: item.DGSkillEstimate,
		})
	}
	return out, nil
}

func specialStatusFromPosition(position string) string {
	switch strings.ToUpper(strings.TrimSpace(position)) {
	case "CUT", "MC":
		return "CUT"
	case "WD":
		return "WD"
	case "DQ", "DSQ":
		return "DQ"
	default:
		return ""
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "datagolf circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: golf data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("file_format", "json")
	values.Set("key", c.key)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	flightKey := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(flightKey, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errDataGolfTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errDataGolfTransient, sanitizeSensitiveText(err.Error(), c.key))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errDataGolfTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errDataGolfTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "datagolf request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "key=REDACTED")
}

func redactAPIURL(fullURL string) string {
	return apiKeyParamRegex.ReplaceAllString(fullURL, "key=REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
