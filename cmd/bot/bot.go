package bot

import (
	"errors"
	"time"

	"github.com/RedBear961/qrcreator/internal/adapters/config"
	"github.com/RedBear961/qrcreator/internal/domain/service"
	"github.com/RedBear961/qrcreator/pkg/logger"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
	"github.com/RedBear961/qrcreator/pkg/worker"
	"github.com/nlypage/intele"
	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"
)

// diskWorkers bounds concurrent save dialogs and file writes.
const diskWorkers = 8

type Bot struct {
	*tele.Bot
	Config   *config.Config
	Backends *config.Backends
	Logger   *types.Logger
	Input    *intele.InputManager
	// Workers generates codes; Disk runs save prompts and file writes.
	Workers *worker.Pool
	Disk    *worker.Pool
}

func New(cfg *config.Config, backends *config.Backends) (*Bot, error) {
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is not set")
	}

	botLogger, err := logger.Named("bot")
	if err != nil {
		return nil, err
	}

	settings := tele.Settings{
		Token:     cfg.Bot.Token,
		Poller:    &tele.LongPoller{Timeout: 10 * time.Second},
		ParseMode: tele.ModeHTML,
		OnError: func(err error, ctx tele.Context) {
			if ctx == nil || ctx.Sender() == nil {
				botLogger.Errorf("Error: %v", err)
				return
			}
			if ctx.Callback() == nil {
				botLogger.Errorf("(user: %d) | Error: %v", ctx.Sender().ID, err)
			} else {
				botLogger.Errorf("(user: %d) | unique: %s | Error: %v", ctx.Sender().ID, ctx.Callback().Unique, err)
			}
		},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		return nil, err
	}

	if err = b.SetCommands(Commands); err != nil {
		return nil, err
	}

	return &Bot{
		Bot:      b,
		Config:   cfg,
		Backends: backends,
		Logger:   botLogger,
		Input:    intele.NewInputManager(intele.InputOptions{}),
		Workers:  worker.NewPool(cfg.Render.Workers),
		Disk:     worker.NewPool(diskWorkers),
	}, nil
}

// Commands is the command menu shown by Telegram clients.
var Commands = []tele.Command{
	{Text: "start", Description: "Show the code preview"},
	{Text: "settings", Description: "Show current settings"},
	{Text: "live", Description: "Turn live generation on or off"},
	{Text: "style", Description: "Code color: white or black"},
	{Text: "resolution", Description: "Side length of saved images in pixels"},
	{Text: "level", Description: "QR error correction: L, M, Q or H"},
	{Text: "reset", Description: "Restore default settings"},
	{Text: "paste", Description: "Send the copied image"},
	{Text: "cancel", Description: "Cancel saving"},
}

// Start installs the chat log hook when configured and polls for updates until Stop.
func (b *Bot) Start() {
	logger.Log.Info("Bot starting")

	if b.Config.Bot.LogChatID != 0 {
		notifyLogger, err := logger.Named("notify")
		if err != nil {
			logger.Log.Errorf("Failed to create notify logger: %v", err)
		} else {
			notifyService := service.NewNotifyService(b.Bot, notifyLogger)
			logHook, err := notifyService.LogHook(b.Config.Bot.LogChatID, zapcore.Level(b.Config.Bot.LogLevel))
			if err != nil {
				logger.Log.Errorf("Failed to create notify log hook: %v", err)
			} else {
				logger.SetLogHook(logHook)
			}
		}
	}

	b.Bot.Start()
}

// Close releases the worker pools. Call after Stop.
func (b *Bot) Close() {
	b.Workers.Close()
	b.Disk.Close()
}
