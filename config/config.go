package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// defaultDefectThreshold — допустимое суммарное отклонение радиусов
// в пикселях, если порог не задан явно.
const defaultDefectThreshold = 2

type Config struct {
	TelegramToken   string
	DefectThreshold int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		DefectThreshold: defaultDefectThreshold,
	}

	if raw := os.Getenv("DEFECT_THRESHOLD"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold < 0 {
			return nil, fmt.Errorf("invalid DEFECT_THRESHOLD: %q", raw)
		}
		cfg.DefectThreshold = threshold
	}

	return cfg, nil
}
