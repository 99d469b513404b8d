package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"donut-inspector/config"
	telegram "donut-inspector/internal/api"
	app "donut-inspector/internal/application"
	"donut-inspector/internal/container"
	"donut-inspector/internal/infrastructure/storage"
	"donut-inspector/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаём хранилище пользователей и экстрактор геометрии
	userRepo := storage.NewMemoryUserRepository()
	extractor := vision.NewGoCVExtractor()

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, extractor, cfg.DefectThreshold)

	// Одноразовый режим: два пути к файлам, отчёт в stdout
	if len(os.Args) == 3 {
		runOnce(appContainer.InspectionService, os.Args[1], os.Args[2])
		return
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}

// runOnce сравнивает тестовое изображение с эталонным и печатает отчёт.
func runOnce(svc *app.InspectionService, referencePath, testPath string) {
	fmt.Printf("Processing %q against reference %q\n", filepath.Base(testPath), filepath.Base(referencePath))

	out, err := svc.CompareFiles(context.Background(), referencePath, testPath)
	if err != nil {
		fmt.Println("Status: ERROR")
		fmt.Printf("Details: %v\n", err)
		os.Exit(1)
	}

	if out.Verdict.IsDefective {
		fmt.Println("Status: DEFECTIVE")
		fmt.Printf("Defect type: %s\n", out.Verdict.Type.Description())
	} else {
		fmt.Println("Status: GOOD")
	}
	fmt.Printf("Difference pixels: %d\n", out.Verdict.Deviation)
}
