package setup

import (
	"github.com/RedBear961/qrcreator/cmd/bot"
	"github.com/RedBear961/qrcreator/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/RedBear961/qrcreator/internal/adapters/controller/telegram/handlers/preview"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

// Setup registers middlewares and handlers. Close the returned handler after the bot stops.
func Setup(b *bot.Bot) *preview.Handler {
	// Pre-setup and global middlewares
	middle := middlewares.New(b)
	previewHandler := preview.New(b)

	if b.Config.Debug {
		b.Use(middleware.Logger())
	}
	b.Use(middleware.AutoRespond())
	b.Use(middle.PrivateOnly)
	b.Use(middle.ResetInputOnCommand)

	// Setup handlers
	previewHandler.Setup(b.Group())

	b.Handle(tele.OnMedia, func(c tele.Context) error {
		return c.Send("Send text to encode.", tele.ModeDefault)
	})

	return previewHandler
}
