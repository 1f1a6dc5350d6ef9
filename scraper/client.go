package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

var (
	// ErrParse на странице не найден ожидаемый блок
	ErrParse = errors.New("failed to parse city web page")

	// ErrFetch страницу не удалось загрузить
	ErrFetch = errors.New("failed to fetch city web page")
)

// Config конфигурация клиента сайта города
type Config struct {
	HomepageURL          string
	CoronavirusDetailURL string
	Timeout              time.Duration
	RateLimit            rate.Limit
	Logger               *slog.Logger
}

// Client загружает и разбирает страницы boston.gov
type Client struct {
	homepageURL string
	detailURL   string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewClient создает клиент сайта города
func NewClient(config Config) *Client {
	if config.HomepageURL == "" {
		config.HomepageURL = "https://www.boston.gov"
	}
	if config.CoronavirusDetailURL == "" {
		config.CoronavirusDetailURL = "https://www.boston.gov/news/coronavirus-disease-covid-19-boston"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(time.Second)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		homepageURL: config.HomepageURL,
		detailURL:   config.CoronavirusDetailURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 2),
		logger:  config.Logger,
	}
}

// fetchDocument загружает страницу и строит goquery документ
func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait failed: %v", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", "BostonInfo/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetch, pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return doc, nil
}
