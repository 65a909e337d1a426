package preview

import (
	"bytes"
	"fmt"
	"image"

	"github.com/RedBear961/qrcreator/internal/domain/utils/banner"
	"github.com/RedBear961/qrcreator/pkg/codegen"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

// Callback buttons of the preview message.
var (
	BtnKind = tele.Btn{Unique: "kind"}
	BtnSave = tele.Btn{Unique: "save"}
	BtnCopy = tele.Btn{Unique: "copy"}
)

type messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	EditMedia(msg tele.Editable, media tele.Inputtable, opts ...interface{}) (*tele.Message, error)
	EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error)
}

// chatView renders the presenter state as a single photo message that is
// edited in place. It is only touched from the session UI queue.
type chatView struct {
	bot    messenger
	chat   tele.Recipient
	logger *types.Logger
	size   int

	text        string
	preview     image.Image
	actions     bool
	placeholder bool

	// what the chat currently shows
	message      *tele.Message
	shown        image.Image
	shownActions bool
	shownKind    codegen.Kind
}

func newChatView(bot messenger, chat tele.Recipient, size int, logger *types.Logger) *chatView {
	return &chatView{
		bot:         bot,
		chat:        chat,
		logger:      logger,
		size:        size,
		placeholder: true,
	}
}

func (v *chatView) PreviewSize() int {
	return v.size
}

func (v *chatView) CurrentText() string {
	return v.text
}

func (v *chatView) UpdatePreview(img image.Image) {
	v.preview = img
}

func (v *chatView) SetActionsEnabled(enabled bool) {
	v.actions = enabled
}

func (v *chatView) SetPlaceholderVisible(visible bool) {
	v.placeholder = visible
}

// reset forgets the preview message so the next flush sends a new one.
func (v *chatView) reset() {
	v.message = nil
	v.shown = nil
}

// flush brings the chat in line with the view state, sending or editing the
// preview message only when something visible changed.
func (v *chatView) flush(kind codegen.Kind) {
	img := v.preview
	if img == nil || v.placeholder {
		img = banner.Placeholder(v.size)
	}
	actions := v.actions && v.preview != nil

	if v.message != nil && img == v.shown && actions == v.shownActions && kind == v.shownKind {
		return
	}

	markup := keyboard(kind, actions)
	var (
		msg *tele.Message
		err error
	)
	switch {
	case v.message == nil || img != v.shown:
		msg, err = v.sendPhoto(img, markup)
	default:
		msg, err = v.bot.EditReplyMarkup(v.message, markup)
	}
	if err != nil {
		v.logger.Errorf("failed to update preview message: %v", err)
		if v.message != nil {
			// the message may be gone; start over on the next change
			v.reset()
		}
		return
	}

	if msg != nil {
		v.message = msg
	}
	v.shown = img
	v.shownActions = actions
	v.shownKind = kind
}

func (v *chatView) sendPhoto(img image.Image, markup *tele.ReplyMarkup) (*tele.Message, error) {
	data, err := codegen.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	photo := &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(data)),
		Caption: v.caption(),
	}
	if v.message == nil {
		return v.bot.Send(v.chat, photo, markup)
	}
	return v.bot.EditMedia(v.message, photo, markup)
}

func (v *chatView) caption() string {
	if v.preview == nil {
		return "Send me text to encode."
	}
	return fmt.Sprintf("Preview %dpx", v.size)
}

func keyboard(kind codegen.Kind, actions bool) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}

	label := func(k codegen.Kind, text string) string {
		if k == kind {
			return "• " + text
		}
		return text
	}

	rows := []tele.Row{
		m.Row(
			m.Data(label(codegen.KindQR, "QR"), BtnKind.Unique, codegen.KindQR.String()),
			m.Data(label(codegen.KindBar, "Bar"), BtnKind.Unique, codegen.KindBar.String()),
		),
	}
	if actions {
		rows = append(rows, m.Row(
			m.Data("Save", BtnSave.Unique),
			m.Data("Copy", BtnCopy.Unique),
		))
	}
	m.Inline(rows...)
	return m
}
