package preview

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/internal/domain/presenter"
	"github.com/RedBear961/qrcreator/internal/domain/service"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
	"github.com/RedBear961/qrcreator/pkg/queue"
	"github.com/nlypage/intele"
	tele "gopkg.in/telebot.v3"
)

// uiBacklog is the capacity of a session UI queue.
const uiBacklog = 256

// session is the per-user preview screen: its own preferences, UI queue,
// view and presenter.
type session struct {
	userID    int64
	ui        *queue.Serial
	view      *chatView
	prefs     *preferences.Preferences
	presenter *presenter.Presenter
	saver     *service.ImageSaver
	clipboard service.ReadableClipboard

	// set while the save prompt waits for a file name
	awaiting atomic.Bool
}

// Dispatch runs fn on the UI queue and then syncs the chat with the view.
func (s *session) Dispatch(fn func()) {
	s.ui.Dispatch(func() {
		fn()
		s.view.flush(s.presenter.Kind())
	})
}

// do runs fn on the UI queue and waits for it.
func (s *session) do(fn func(p *presenter.Presenter)) {
	s.ui.Sync(func() {
		fn(s.presenter)
		s.view.flush(s.presenter.Kind())
	})
}

// copy starts exporting the current text to the clipboard and returns the
// reply for the copy button. The export itself finishes in the background.
func (s *session) copy() string {
	started := false
	s.do(func(p *presenter.Presenter) {
		if s.view.CurrentText() == "" {
			return
		}
		started = true
		p.Copy()
	})
	if !started {
		return "Nothing to copy yet."
	}
	return "Copying… use /paste once it is ready."
}

func (s *session) close() {
	s.presenter.Close()
	s.ui.Close()
}

// chatAlerter sends readable errors to the chat.
type chatAlerter struct {
	bot    messenger
	chat   tele.Recipient
	logger *types.Logger
}

func (a chatAlerter) Alert(err *errorz.ReadableError) {
	text := fmt.Sprintf("%s %s", severityIcon(err.Severity), err.Error())
	if _, sendErr := a.bot.Send(a.chat, text, tele.ModeDefault); sendErr != nil {
		a.logger.Errorf("failed to send alert %q: %v", err.Title, sendErr)
	}
}

func severityIcon(s errorz.Severity) string {
	switch s {
	case errorz.SeverityCritical:
		return "⛔"
	case errorz.SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// fileNameChooser asks the user for a file name through the input manager.
type fileNameChooser struct {
	bot      messenger
	chat     tele.Recipient
	userID   int64
	input    *intele.InputManager
	awaiting *atomic.Bool
	// done aborts pending prompts on shutdown
	done context.Context
}

func (c fileNameChooser) Choose(ctx context.Context, _ string) (string, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.done, cancel)
	defer stop()

	name := service.DefaultFileName()
	prompt := fmt.Sprintf("Send a file name for the image, or \"-\" to use %s. /cancel aborts.", name)
	if _, err := c.bot.Send(c.chat, prompt, tele.ModeDefault); err != nil {
		return "", false, err
	}

	c.awaiting.Store(true)
	defer c.awaiting.Store(false)

	message, canceled, err := c.input.Get(ctx, c.userID, 0)
	switch {
	case canceled:
		return "", false, nil
	case err != nil:
		return "", false, err
	case message == nil:
		return "", false, nil
	}
	return chosenName(message.Text, name), true, nil
}

// chosenName keeps only the base name so that replies cannot leave the
// user's directory. "-" selects fallback.
func chosenName(text, fallback string) string {
	text = strings.TrimSpace(text)
	if text == "-" {
		return fallback
	}
	if text == "" {
		return ""
	}
	base := filepath.Base(filepath.Clean("/" + text))
	if base == "/" || base == "." {
		return ""
	}
	return base
}
