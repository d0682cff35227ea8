package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	TelegramBotToken string
	WebhookURL       string // пусто — поллинг

	VLSUBaseURL  string
	TZ           string
	CalendarFile string // YAML учебного календаря; пусто — вшитый
	HarvestCron  string // cron-выражение фонового обновления; пусто — выключено
	HarvestForms string // формы обучения для фонового обновления
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	// .env — для локального запуска; в проде переменные приходят из окружения
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8000"),

		TelegramBotToken: mustEnv("BOT_TOKEN"),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),

		VLSUBaseURL:  getEnv("VLSU_BASE_URL", ""),
		TZ:           getEnv("TZ", "Europe/Moscow"),
		CalendarFile: getEnv("CALENDAR_FILE", ""),
		HarvestCron:  getEnv("HARVEST_CRON", ""),
		HarvestForms: getEnv("HARVEST_FORMS", "0"),
	}
}
