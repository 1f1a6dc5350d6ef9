package recollect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bostoninfo/normalization"
)

var (
	// ErrBadResponse сервис ответил статусом, отличным от 200
	ErrBadResponse = errors.New("bad response from recollect api")

	// ErrMissingPlaceID у кандидата нет place_id, расписание запросить нельзя
	ErrMissingPlaceID = errors.New("address candidate has no place_id")
)

// Флаги событий, которые считаются вывозом мусора
var pickupServices = map[string]bool{
	"waste":     true,
	"trash":     true,
	"recycling": true,
}

// ClientConfig конфигурация клиента ReCollect
type ClientConfig struct {
	BaseURL   string
	Area      string
	ServiceID int
	Timeout   time.Duration
	RateLimit rate.Limit
	Cache     *Cache
	Retry     RetryConfig
	Logger    *slog.Logger
}

// Client клиент API расписаний вывоза мусора ReCollect
type Client struct {
	baseURL    string
	area       string
	serviceID  int
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
	retry      RetryConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient создает новый клиент ReCollect
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://recollect.net"
	}
	if config.Area == "" {
		config.Area = "Boston"
	}
	if config.ServiceID == 0 {
		config.ServiceID = 310
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Limit(5)
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = DefaultRetryConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		area:      config.Area,
		serviceID: config.ServiceID,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
		cache:   config.Cache,
		retry:   config.Retry,
		logger:  config.Logger,
		now:     time.Now,
	}
}

// SuggestAddresses возвращает кандидатов адреса для свободного текстового запроса.
// Записи декодируются в карты, чтобы сохранить все поля ответа.
func (c *Client) SuggestAddresses(ctx context.Context, query string) ([]normalization.AddressCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty address query")
	}

	cacheKey := strings.ToLower(query)
	if c.cache != nil {
		if cached, found := c.cache.Get(cacheKey); found {
			c.logger.Debug("Address suggest cache hit", "query", query)
			return cached, nil
		}
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("locale", "en-US")
	fullURL := fmt.Sprintf("%s/api/areas/%s/services/%d/address-suggest?%s",
		c.baseURL, url.PathEscape(c.area), c.serviceID, params.Encode())

	var candidates []normalization.AddressCandidate
	if err := c.getJSON(ctx, fullURL, &candidates); err != nil {
		return nil, fmt.Errorf("address suggest failed: %w", err)
	}
	if candidates == nil {
		candidates = []normalization.AddressCandidate{}
	}

	c.logger.Info("Address suggest completed",
		"query", query,
		"candidates", len(candidates))

	if c.cache != nil {
		c.cache.Set(cacheKey, candidates)
	}

	return candidates, nil
}

// UpcomingPickupDays возвращает дни недели вывоза мусора и вторсырья
// в ближайшие семь дней для выбранного кандидата
func (c *Client) UpcomingPickupDays(ctx context.Context, candidate normalization.AddressCandidate) ([]string, error) {
	placeID := candidate.PlaceID()
	if placeID == "" {
		return nil, ErrMissingPlaceID
	}
	serviceID := candidate.ServiceID()
	if serviceID == "" {
		serviceID = fmt.Sprintf("%d", c.serviceID)
	}

	today := c.now()
	params := url.Values{}
	params.Add("after", today.Format("2006-01-02"))
	params.Add("before", today.AddDate(0, 0, 7).Format("2006-01-02"))
	params.Add("locale", "en-US")
	fullURL := fmt.Sprintf("%s/api/places/%s/services/%s/events?%s",
		c.baseURL, url.PathEscape(placeID), url.PathEscape(serviceID), params.Encode())

	var events EventsResponse
	if err := c.getJSON(ctx, fullURL, &events); err != nil {
		return nil, fmt.Errorf("pickup events request failed: %w", err)
	}

	days := PickupDaysFromEvents(&events)
	c.logger.Info("Pickup days fetched",
		"place_id", placeID,
		"events", len(events.Events),
		"days", days)

	return days, nil
}

// PickupDaysFromEvents выбирает уникальные дни недели событий вывоза в порядке появления
func PickupDaysFromEvents(events *EventsResponse) []string {
	days := make([]string, 0)
	seen := make(map[string]bool)

	for _, event := range events.Events {
		if !event.isPickup() {
			continue
		}
		date, err := time.Parse("2006-01-02", event.Day)
		if err != nil {
			continue
		}
		weekday := date.Weekday().String()
		if !seen[weekday] {
			seen[weekday] = true
			days = append(days, weekday)
		}
	}

	return days
}

// getJSON выполняет GET с повторами временных сбоев
func (c *Client) getJSON(ctx context.Context, fullURL string, out interface{}) error {
	attempt := 0
	return retry(ctx, c.retry, func() error {
		attempt++
		err := c.doGetJSON(ctx, fullURL, out)
		if err != nil && IsRetryableError(err) && attempt < c.retry.MaxAttempts {
			c.logger.Warn("ReCollect request failed, retrying",
				"attempt", attempt,
				"max_attempts", c.retry.MaxAttempts,
				"error", err)
		}
		return err
	})
}

func (c *Client) doGetJSON(ctx context.Context, fullURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "BostonInfo/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
