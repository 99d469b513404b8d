package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "donut-inspector/internal/application"
	"donut-inspector/internal/container"
	"donut-inspector/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для контроля колец по эталонному фото.

📸 Я измеряю центр и радиусы кольца на фотографии и сравниваю их с эталоном.

📋 Команды:
/check — начать проверку детали
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check
2️⃣ Пришлите фото эталонного кольца
3️⃣ Пришлите фото проверяемого кольца
4️⃣ Бот измерит радиусы и вынесет вердикт: GOOD или DEFECTIVE

💡 Рекомендации:
• Снимайте при хорошем освещении
• Используйте однотонный светлый фон
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingReference = "📸 Отправьте фото эталонного кольца."
	msgCancelled         = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendCheck         = "Отправьте /check, чтобы начать проверку."
	msgUnknownCommand    = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing        = "⏳ Обрабатываю изображение..."
	msgDownloadError     = "⚠️ Не удалось получить фото. Попробуйте отправить его ещё раз."
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	services *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		services: services,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.services.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if msg.Photo != nil && len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendCheck)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.services.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		b.services.UserService.BeginCheck(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingReference)

	case "cancel":
		b.services.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото в зависимости от шага сценария
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	state := user.State
	if state != entity.StateAwaitingReferencePhoto && state != entity.StateAwaitingTestPhoto {
		b.sendMessage(msg.Chat.ID, msgSendCheck)
		return
	}

	// Устанавливаем состояние "обработка"
	b.services.UserService.SetState(ctx, msg.From.ID, msg.Chat.ID, entity.StateProcessing)
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		// Возвращаем прежний шаг сценария, чтобы фото можно было прислать заново
		b.services.UserService.SetState(ctx, msg.From.ID, msg.Chat.ID, state)
		b.sendMessage(msg.Chat.ID, msgDownloadError)
		return
	}

	switch state {
	case entity.StateAwaitingReferencePhoto:
		b.handleReferencePhoto(ctx, msg, imageData)
	case entity.StateAwaitingTestPhoto:
		b.handleTestPhoto(ctx, msg, imageData)
	}
}

// handleReferencePhoto измеряет эталон и просит фото проверяемой детали
func (b *Bot) handleReferencePhoto(ctx context.Context, msg *tgbotapi.Message, imageData []byte) {
	_, geom, err := b.services.InspectionService.AcceptReferencePhoto(ctx, msg.From.ID, msg.Chat.ID, imageData)
	if err != nil {
		log.Printf("Error extracting reference geometry: %v", err)
		b.services.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("❌ Статус: ERROR\nПричина: %s", failureText(err)))
		return
	}

	cx, cy := geom.Center()
	b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"📏 Эталон принят: центр (%d, %d), внешний радиус %d, внутренний радиус %d.\n\n📸 Теперь отправьте фото проверяемого кольца.",
		cx, cy, geom.OuterRadius, geom.InnerRadius))
}

// handleTestPhoto измеряет тестовую деталь и присылает вердикт
func (b *Bot) handleTestPhoto(ctx context.Context, msg *tgbotapi.Message, imageData []byte) {
	_, out, err := b.services.InspectionService.AcceptTestPhoto(ctx, msg.From.ID, msg.Chat.ID, imageData)
	if err != nil {
		log.Printf("Error inspecting test photo: %v", err)
		b.services.UserService.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("❌ Статус: ERROR\nПричина: %s", failureText(err)))
		return
	}

	b.sendMessage(msg.Chat.ID, renderVerdict(out))
}

// renderVerdict строит текстовый отчёт по итогам сравнения
func renderVerdict(out *app.InspectionOutput) string {
	if !out.Verdict.IsDefective {
		return fmt.Sprintf("✅ Статус: GOOD\nОтклонение: %d пикс.", out.Verdict.Deviation)
	}

	return fmt.Sprintf("❌ Статус: DEFECTIVE\nТип дефекта: %s\nОтклонение: %d пикс.",
		defectTypeText(out.Verdict.Type), out.Verdict.Deviation)
}

// defectTypeText переводит тип дефекта для пользователя
func defectTypeText(t entity.DefectType) string {
	switch t {
	case entity.DefectExtra:
		return "Лишний материал (наплыв)"
	case entity.DefectMissing:
		return "Недостающий материал (скол)"
	default:
		return "Не определён"
	}
}

// failureText переводит причину ошибки извлечения для пользователя
func failureText(err error) string {
	switch {
	case errors.Is(err, entity.ErrLoadFailed):
		return "не удалось загрузить изображение"
	case errors.Is(err, entity.ErrNoContour):
		return "на изображении не найден контур детали"
	case errors.Is(err, entity.ErrDegenerateRegion):
		return "контур детали вырожден"
	case errors.Is(err, entity.ErrNoRadii):
		return "не удалось измерить радиусы кольца"
	case errors.Is(err, app.ErrNoReference):
		return "сначала отправьте фото эталонного кольца"
	default:
		return err.Error()
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
