package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	if c.DatabasePath == "" {
		errors = append(errors, "database path is required")
	}

	// Валидация connection pooling
	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		errors = append(errors, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errors = append(errors, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		errors = append(errors, "connection max lifetime must be at least 1 second")
	}

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if c.AddressZIPPrefixLen < 1 || c.AddressZIPPrefixLen > 5 {
		errors = append(errors, fmt.Sprintf("address zip prefix length must be between 1 and 5, got %d",
			c.AddressZIPPrefixLen))
	}

	if c.ReCollect != nil {
		if err := c.ReCollect.Validate(); err != nil {
			errors = append(errors, fmt.Sprintf("recollect config: %v", err))
		}
	}

	if c.Scraper != nil {
		if err := c.Scraper.Validate(); err != nil {
			errors = append(errors, fmt.Sprintf("scraper config: %v", err))
		}
	}

	if c.Skill != nil && c.Skill.APITimeout < time.Second {
		errors = append(errors, "skill api timeout must be at least 1 second")
	}

	if c.SlackWebhookURL != "" && !isHTTPURL(c.SlackWebhookURL) {
		errors = append(errors, "slack webhook url must be an http(s) url")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate проверяет корректность конфигурации ReCollect
func (rc *ReCollectConfig) Validate() error {
	var errors []string

	if !isHTTPURL(rc.BaseURL) {
		errors = append(errors, fmt.Sprintf("invalid base url: %s", rc.BaseURL))
	}
	if rc.Area == "" {
		errors = append(errors, "area is required")
	}
	if rc.ServiceID < 1 {
		errors = append(errors, "service id must be positive")
	}
	if rc.Timeout < time.Second {
		errors = append(errors, "timeout must be at least 1 second")
	}
	if rc.RateLimit <= 0 {
		errors = append(errors, "rate limit must be positive")
	}
	if rc.CacheEnabled && rc.CacheTTL < time.Minute {
		errors = append(errors, "cache TTL must be at least 1 minute")
	}

	if len(errors) > 0 {
		return fmt.Errorf("recollect validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate проверяет корректность конфигурации загрузки страниц
func (sc *ScraperConfig) Validate() error {
	var errors []string

	if !isHTTPURL(sc.HomepageURL) {
		errors = append(errors, fmt.Sprintf("invalid homepage url: %s", sc.HomepageURL))
	}
	if !isHTTPURL(sc.CoronavirusDetailURL) {
		errors = append(errors, fmt.Sprintf("invalid coronavirus detail url: %s", sc.CoronavirusDetailURL))
	}
	if sc.Timeout < time.Second {
		errors = append(errors, "timeout must be at least 1 second")
	}

	if len(errors) > 0 {
		return fmt.Errorf("scraper validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// GetDefaults возвращает конфигурацию со значениями по умолчанию
func GetDefaults() *Config {
	return &Config{
		Port:                "9999",
		DatabasePath:        "lookups.db",
		MaxOpenConns:        10,
		MaxIdleConns:        5,
		ConnMaxLifetime:     5 * time.Minute,
		LogLevel:            "INFO",
		AddressZIPPrefixLen: 3,
		ReCollect: &ReCollectConfig{
			BaseURL:      "https://recollect.net",
			Area:         "Boston",
			ServiceID:    310,
			Timeout:      10 * time.Second,
			RateLimit:    5,
			CacheEnabled: true,
			CacheTTL:     time.Hour,
		},
		Scraper: &ScraperConfig{
			HomepageURL:          "https://www.boston.gov",
			CoronavirusDetailURL: "https://www.boston.gov/news/coronavirus-disease-covid-19-boston",
			Timeout:              10 * time.Second,
		},
		Skill: &SkillConfig{
			APITimeout: 5 * time.Second,
		},
	}
}
