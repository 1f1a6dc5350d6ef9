package main

import (
	"fmt"
	"os"

	"bostoninfo/internal/config"
)

func main() {
	fmt.Println("=== Проверка конфигурации ===")
	fmt.Println("")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("❌ Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Конфигурация успешно загружена")
	fmt.Println("")

	fmt.Println("Основные настройки:")
	fmt.Printf("  Порт: %s\n", cfg.Port)
	fmt.Printf("  Журнал адресов: %s\n", cfg.DatabasePath)
	fmt.Printf("  Уровень логирования: %s\n", cfg.LogLevel)
	fmt.Printf("  Цифр ZIP в ключе адреса: %d\n", cfg.AddressZIPPrefixLen)
	fmt.Println("")

	fmt.Println("Connection Pooling:")
	fmt.Printf("  Max Open Connections: %d\n", cfg.MaxOpenConns)
	fmt.Printf("  Max Idle Connections: %d\n", cfg.MaxIdleConns)
	fmt.Printf("  Connection Max Lifetime: %v\n", cfg.ConnMaxLifetime)
	fmt.Println("")

	if cfg.ReCollect != nil {
		fmt.Println("ReCollect:")
		fmt.Printf("  Base URL: %s\n", cfg.ReCollect.BaseURL)
		fmt.Printf("  Area: %s\n", cfg.ReCollect.Area)
		fmt.Printf("  Service ID: %d\n", cfg.ReCollect.ServiceID)
		fmt.Printf("  Timeout: %v\n", cfg.ReCollect.Timeout)
		fmt.Printf("  Rate Limit: %.1f req/s\n", cfg.ReCollect.RateLimit)
		fmt.Printf("  Cache Enabled: %v\n", cfg.ReCollect.CacheEnabled)
		fmt.Printf("  Cache TTL: %v\n", cfg.ReCollect.CacheTTL)
		fmt.Println("")
	}

	if cfg.Scraper != nil {
		fmt.Println("boston.gov:")
		fmt.Printf("  Homepage: %s\n", cfg.Scraper.HomepageURL)
		fmt.Printf("  Coronavirus Detail: %s\n", cfg.Scraper.CoronavirusDetailURL)
		fmt.Printf("  Timeout: %v\n", cfg.Scraper.Timeout)
		fmt.Println("")
	}

	if cfg.Skill != nil {
		fmt.Println("Skill:")
		if cfg.Skill.ApplicationID != "" {
			fmt.Printf("  Application ID: %s\n", cfg.Skill.ApplicationID)
		} else {
			fmt.Printf("  Application ID: [не задан, проверка отключена]\n")
		}
		fmt.Printf("  Device API Timeout: %v\n", cfg.Skill.APITimeout)
		fmt.Println("")
	}

	if cfg.SlackWebhookURL != "" {
		fmt.Printf("Slack Webhook: [установлен]\n")
	} else {
		fmt.Printf("Slack Webhook: [не установлен]\n")
	}
	fmt.Println("")

	if err := cfg.Validate(); err != nil {
		fmt.Printf("⚠️  Предупреждения валидации: %v\n", err)
		fmt.Println("")
		os.Exit(1)
	}
	fmt.Println("✅ Валидация пройдена успешно")
	fmt.Println("")

	fmt.Println("=== Проверка завершена ===")
}
