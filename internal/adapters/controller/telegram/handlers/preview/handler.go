package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/RedBear961/qrcreator/cmd/bot"
	"github.com/RedBear961/qrcreator/internal/adapters/config"
	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/internal/domain/presenter"
	"github.com/RedBear961/qrcreator/internal/domain/service"
	"github.com/RedBear961/qrcreator/pkg/codegen"
	"github.com/RedBear961/qrcreator/pkg/logger"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
	"github.com/RedBear961/qrcreator/pkg/queue"
	"github.com/RedBear961/qrcreator/pkg/worker"
	"github.com/nlypage/intele"
	tele "gopkg.in/telebot.v3"
)

const clipboardTimeout = 5 * time.Second

type Handler struct {
	bot      *tele.Bot
	input    *intele.InputManager
	logger   *types.Logger
	backends *config.Backends
	render   config.Render
	workers  *worker.Pool
	disk     *worker.Pool

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[int64]*session
}

func New(b *bot.Bot) *Handler {
	handlerLogger, err := logger.Named("preview")
	if err != nil {
		handlerLogger = b.Logger
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Handler{
		bot:      b.Bot,
		input:    b.Input,
		logger:   handlerLogger,
		backends: b.Backends,
		render:   b.Config.Render,
		workers:  b.Workers,
		disk:     b.Disk,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[int64]*session),
	}
}

func (h *Handler) Setup(group *tele.Group) {
	group.Handle("/start", h.Start)
	group.Handle("/settings", h.Settings)
	group.Handle("/live", h.Live)
	group.Handle("/style", h.Style)
	group.Handle("/resolution", h.Resolution)
	group.Handle("/level", h.Level)
	group.Handle("/reset", h.Reset)
	group.Handle("/paste", h.Paste)
	group.Handle("/cancel", h.Cancel)
	group.Handle(&BtnKind, h.SelectKind)
	group.Handle(&BtnSave, h.Save)
	group.Handle(&BtnCopy, h.Copy)
	group.Handle(tele.OnText, h.OnText)
}

// Close aborts pending save prompts and stops every session.
func (h *Handler) Close() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		s.close()
		delete(h.sessions, id)
	}
}

// session returns the session of the sender, creating it on first contact.
func (h *Handler) session(c tele.Context) *session {
	userID := c.Sender().ID

	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[userID]; ok {
		return s
	}

	scope := strconv.FormatInt(userID, 10)
	sessionLogger := &types.Logger{
		SugaredLogger: h.logger.With("user", userID),
		LogsPath:      h.logger.LogsPath,
		Name:          h.logger.Name,
	}
	chat := c.Chat()

	s := &session{
		userID:    userID,
		ui:        queue.NewSerial(uiBacklog),
		view:      newChatView(h.bot, chat, h.render.PreviewSize, sessionLogger),
		prefs:     preferences.New(h.backends.Settings(scope), sessionLogger),
		clipboard: h.backends.Clipboard(scope),
	}
	s.saver = service.NewImageSaver(
		s.clipboard,
		fileNameChooser{
			bot:      h.bot,
			chat:     chat,
			userID:   userID,
			input:    h.input,
			awaiting: &s.awaiting,
			done:     h.ctx,
		},
		chatAlerter{bot: h.bot, chat: chat, logger: sessionLogger},
		service.DocumentsDirectory(h.outputDir(scope)),
		h.disk,
		sessionLogger,
	)
	s.saver.OnSaved(func(path string) {
		doc := &tele.Document{File: tele.FromDisk(path), FileName: filepath.Base(path)}
		if _, err := h.bot.Send(chat, doc); err != nil {
			sessionLogger.Errorf("failed to send saved file: %v", err)
		}
	})
	s.presenter = presenter.New(s.view, s.prefs, s.saver, h.workers, s, sessionLogger)

	h.sessions[userID] = s
	h.logger.Infof("(user: %d) session started", userID)
	return s
}

func (h *Handler) outputDir(scope string) string {
	base := h.render.OutputDir
	if base == "" {
		base = filepath.Join(os.TempDir(), "qrcreator")
	}
	return filepath.Join(base, scope)
}

func (h *Handler) Start(c tele.Context) error {
	h.logger.Infof("(user: %d) press start button", c.Sender().ID)

	s := h.session(c)
	s.do(func(p *presenter.Presenter) {
		s.view.text = ""
		s.view.reset()
		p.ViewWillAppear()
	})
	return nil
}

func (h *Handler) OnText(c tele.Context) error {
	s := h.session(c)
	if s.awaiting.Load() {
		return h.input.Handler()(c)
	}

	text := c.Text()
	if strings.HasPrefix(text, "/") {
		return c.Send("Unknown command.", tele.ModeDefault)
	}
	s.do(func(p *presenter.Presenter) {
		s.view.text = text
		p.TextDidChange(text)
	})
	return nil
}

func (h *Handler) SelectKind(c tele.Context) error {
	kind, err := codegen.ParseKind(c.Data())
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: err.Error()})
	}
	s := h.session(c)
	s.do(func(p *presenter.Presenter) {
		p.SelectKind(kind)
	})
	return nil
}

func (h *Handler) Save(c tele.Context) error {
	s := h.session(c)
	if s.awaiting.Load() {
		return c.Respond(&tele.CallbackResponse{Text: "Already waiting for a file name."})
	}
	s.do(func(p *presenter.Presenter) {
		p.Save()
	})
	return nil
}

func (h *Handler) Copy(c tele.Context) error {
	return c.Respond(&tele.CallbackResponse{Text: h.session(c).copy()})
}

func (h *Handler) Paste(c tele.Context) error {
	s := h.session(c)

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()
	img, err := s.clipboard.ReadImage(ctx)
	if errors.Is(err, errorz.ErrNotFound) {
		return c.Send("The clipboard is empty.", tele.ModeDefault)
	}
	if err != nil {
		h.logger.Errorf("(user: %d) failed to read clipboard: %v", c.Sender().ID, err)
		return c.Send("Could not read the clipboard.", tele.ModeDefault)
	}

	data, err := codegen.EncodePNG(img)
	if err != nil {
		return err
	}
	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: "clipboard.png",
	})
}

func (h *Handler) Cancel(c tele.Context) error {
	h.input.Cancel(c.Sender().ID)
	return c.Send("Cancelled.", tele.ModeDefault)
}

func (h *Handler) Settings(c tele.Context) error {
	s := h.session(c)
	return c.Send(formatSettings(s.prefs.Snapshot()))
}

func (h *Handler) Live(c tele.Context) error {
	return h.change(c, func(prefs *preferences.Preferences, args []string) error {
		v := !prefs.LiveGeneration()
		if len(args) > 0 {
			parsed, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			v = parsed
		}
		return prefs.SetLiveGeneration(v)
	})
}

func (h *Handler) Style(c tele.Context) error {
	return h.change(c, func(prefs *preferences.Preferences, args []string) error {
		v := preferences.StyleBlack
		if prefs.CodeStyle() == preferences.StyleBlack {
			v = preferences.StyleWhite
		}
		if len(args) > 0 {
			parsed, err := preferences.ParseCodeStyle(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", errorz.ErrInvalidValue, err)
			}
			v = parsed
		}
		return prefs.SetCodeStyle(v)
	})
}

func (h *Handler) Resolution(c tele.Context) error {
	return h.change(c, func(prefs *preferences.Preferences, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("%w: usage /resolution 512", errorz.ErrInvalidValue)
		}
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: resolution must be between 1 and %d", errorz.ErrInvalidValue, codegen.MaxSize)
		}
		return prefs.SetResolution(uint(v))
	})
}

func (h *Handler) Level(c tele.Context) error {
	return h.change(c, func(prefs *preferences.Preferences, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("%w: usage /level L|M|Q|H", errorz.ErrInvalidValue)
		}
		return prefs.SetQRCodeLevel(codegen.Level(args[0]))
	})
}

func (h *Handler) Reset(c tele.Context) error {
	return h.change(c, func(prefs *preferences.Preferences, _ []string) error {
		return prefs.Reset()
	})
}

// change applies a preference command and replies with the resulting settings.
func (h *Handler) change(c tele.Context, apply func(prefs *preferences.Preferences, args []string) error) error {
	s := h.session(c)

	err := apply(s.prefs, c.Args())
	switch {
	case errors.Is(err, errorz.ErrInvalidValue):
		return c.Send(err.Error(), tele.ModeDefault)
	case err != nil:
		h.logger.Errorf("(user: %d) failed to persist preferences: %v", c.Sender().ID, err)
		return c.Send(formatSettings(s.prefs.Snapshot()) + "\n\n<i>Not saved, the change lasts until restart.</i>")
	default:
		return c.Send(formatSettings(s.prefs.Snapshot()))
	}
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected on or off, got %q", errorz.ErrInvalidValue, s)
	}
}

func formatSettings(s preferences.Settings) string {
	live := "off"
	if s.LiveGeneration {
		live = "on"
	}
	return fmt.Sprintf(
		"<b>Settings</b>\nLive generation: %s\nResolution: %dpx\nStyle: %s\nQR correction level: %s",
		live, s.Resolution, s.CodeStyle, s.QRCodeLevel,
	)
}
