package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервера
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных журнала адресов
	DatabasePath string `json:"database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Логирование
	LogLevel string `json:"log_level"`

	// Группировка адресов: сколько первых цифр ZIP различают здания
	AddressZIPPrefixLen int `json:"address_zip_prefix_len"`

	// Сервис расписаний вывоза мусора
	ReCollect *ReCollectConfig `json:"recollect"`

	// Сайт города
	Scraper *ScraperConfig `json:"scraper"`

	// Голосовая платформа
	Skill *SkillConfig `json:"skill"`

	// Уведомления об ошибках
	SlackWebhookURL string `json:"-"`
}

// ReCollectConfig конфигурация клиента ReCollect
type ReCollectConfig struct {
	BaseURL      string        `json:"base_url"`
	Area         string        `json:"area"`
	ServiceID    int           `json:"service_id"`
	Timeout      time.Duration `json:"timeout"`
	RateLimit    float64       `json:"rate_limit"`
	CacheEnabled bool          `json:"cache_enabled"`
	CacheTTL     time.Duration `json:"cache_ttl"`
}

// ScraperConfig конфигурация загрузки страниц boston.gov
type ScraperConfig struct {
	HomepageURL          string        `json:"homepage_url"`
	CoronavirusDetailURL string        `json:"coronavirus_detail_url"`
	Timeout              time.Duration `json:"timeout"`
}

// SkillConfig конфигурация навыка
type SkillConfig struct {
	ApplicationID string        `json:"application_id"`
	APITimeout    time.Duration `json:"api_timeout"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		// Сервер
		Port: getEnv("SERVER_PORT", "9999"),

		// База данных
		DatabasePath: getEnv("DATABASE_PATH", "lookups.db"),

		// Connection pooling
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		// Логирование
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		AddressZIPPrefixLen: getEnvInt("ADDRESS_ZIP_PREFIX_LEN", 3),

		ReCollect: LoadReCollectConfig(),
		Scraper:   LoadScraperConfig(),
		Skill:     LoadSkillConfig(),

		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// LoadReCollectConfig загружает конфигурацию клиента ReCollect
func LoadReCollectConfig() *ReCollectConfig {
	return &ReCollectConfig{
		BaseURL:      getEnv("RECOLLECT_BASE_URL", "https://recollect.net"),
		Area:         getEnv("RECOLLECT_AREA", "Boston"),
		ServiceID:    getEnvInt("RECOLLECT_SERVICE_ID", 310),
		Timeout:      getEnvDuration("RECOLLECT_TIMEOUT", 10*time.Second),
		RateLimit:    getEnvFloat("RECOLLECT_RATE_LIMIT", 5),
		CacheEnabled: getEnv("RECOLLECT_CACHE_ENABLED", "true") == "true",
		CacheTTL:     getEnvDuration("RECOLLECT_CACHE_TTL", time.Hour),
	}
}

// LoadScraperConfig загружает конфигурацию загрузки страниц города
func LoadScraperConfig() *ScraperConfig {
	return &ScraperConfig{
		HomepageURL:          getEnv("BOSTON_HOMEPAGE_URL", "https://www.boston.gov"),
		CoronavirusDetailURL: getEnv("CORONAVIRUS_DETAIL_URL", "https://www.boston.gov/news/coronavirus-disease-covid-19-boston"),
		Timeout:              getEnvDuration("SCRAPER_TIMEOUT", 10*time.Second),
	}
}

// LoadSkillConfig загружает конфигурацию навыка
func LoadSkillConfig() *SkillConfig {
	return &SkillConfig{
		ApplicationID: os.Getenv("ALEXA_APPLICATION_ID"),
		APITimeout:    getEnvDuration("ALEXA_API_TIMEOUT", 5*time.Second),
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
