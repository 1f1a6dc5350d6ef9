package intents

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

	"bostoninfo/skill"
)

var (
	// ErrDeviceAddressPermission пользователь не разрешил навыку читать адрес устройства
	ErrDeviceAddressPermission = errors.New("device address permission not granted")

	// ErrDeviceAddressUnavailable API адреса устройства ответило ошибкой
	ErrDeviceAddressUnavailable = errors.New("device address api unavailable")
)

// DeviceAddress адрес, указанный в настройках устройства
type DeviceAddress struct {
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2"`
	AddressLine3  string `json:"addressLine3"`
	City          string `json:"city"`
	StateOrRegion string `json:"stateOrRegion"`
	PostalCode    string `json:"postalCode"`
	CountryCode   string `json:"countryCode"`
}

// String адрес одной строкой в виде, пригодном для поиска
func (a DeviceAddress) String() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.AddressLine1, a.City, a.StateOrRegion, a.PostalCode} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// DeviceAddressClient читает адрес устройства через API платформы
type DeviceAddressClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewDeviceAddressClient создает клиент API адреса устройства
func NewDeviceAddressClient(timeout time.Duration, logger *slog.Logger) *DeviceAddressClient {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeviceAddressClient{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		logger:     logger,
	}
}

// GetDeviceAddress возвращает адрес устройства одной строкой.
// Пустая строка без ошибки означает, что адрес в настройках не заполнен.
func (c *DeviceAddressClient) GetDeviceAddress(ctx context.Context, req *skill.SkillRequest) (string, error) {
	if req.APIEndpoint == "" || req.APIAccessToken == "" || req.APIAccessToken == "none" {
		return "", ErrDeviceAddressPermission
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	endpoint := strings.TrimRight(req.APIEndpoint, "/") +
		"/v1/devices/" + url.PathEscape(req.DeviceID) + "/settings/address"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIAccessToken)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeviceAddressUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return "", ErrDeviceAddressPermission
	case http.StatusNoContent:
		return "", nil
	default:
		return "", fmt.Errorf("%w: status %d", ErrDeviceAddressUnavailable, resp.StatusCode)
	}

	var address DeviceAddress
	if err := json.NewDecoder(resp.Body).Decode(&address); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrDeviceAddressUnavailable, err)
	}

	if strings.TrimSpace(address.AddressLine1) == "" {
		c.logger.Info("Device address is empty", "device_id", req.DeviceID)
		return "", nil
	}

	return address.String(), nil
}
