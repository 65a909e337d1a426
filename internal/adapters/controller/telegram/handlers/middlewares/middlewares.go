package middlewares

import (
	"strings"

	"github.com/RedBear961/qrcreator/cmd/bot"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
	"github.com/nlypage/intele"
	tele "gopkg.in/telebot.v3"
)

type Handler struct {
	logger *types.Logger
	input  *intele.InputManager
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		logger: b.Logger,
		input:  b.Input,
	}
}

// PrivateOnly drops updates that do not come from a private chat with a user.
func (h Handler) PrivateOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Sender() == nil || c.Chat() == nil || c.Chat().Type != tele.ChatPrivate {
			return nil
		}
		return next(c)
	}
}

// ResetInputOnCommand clears a pending input request when a command is sent.
func (h Handler) ResetInputOnCommand(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Message() != nil && strings.HasPrefix(c.Message().Text, "/") {
			h.input.Cancel(c.Sender().ID)
		}
		return next(c)
	}
}
