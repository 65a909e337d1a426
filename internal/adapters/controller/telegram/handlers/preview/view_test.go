package preview

import (
	"errors"
	"image"
	"testing"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/pkg/codegen"
	"github.com/RedBear961/qrcreator/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type fakeMessenger struct {
	sent, media, markups int
	texts                []string
	lastMarkup           *tele.ReplyMarkup
	failNext             bool
}

func (m *fakeMessenger) fail() error {
	if m.failNext {
		m.failNext = false
		return errors.New("message to edit not found")
	}
	return nil
}

func (m *fakeMessenger) Send(_ tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.sent++
	if text, ok := what.(string); ok {
		m.texts = append(m.texts, text)
	}
	for _, opt := range opts {
		if markup, ok := opt.(*tele.ReplyMarkup); ok {
			m.lastMarkup = markup
		}
	}
	return &tele.Message{ID: m.sent}, nil
}

func (m *fakeMessenger) EditMedia(msg tele.Editable, _ tele.Inputtable, opts ...interface{}) (*tele.Message, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.media++
	for _, opt := range opts {
		if markup, ok := opt.(*tele.ReplyMarkup); ok {
			m.lastMarkup = markup
		}
	}
	return msg.(*tele.Message), nil
}

func (m *fakeMessenger) EditReplyMarkup(msg tele.Editable, markup *tele.ReplyMarkup) (*tele.Message, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.markups++
	m.lastMarkup = markup
	return msg.(*tele.Message), nil
}

func buttons(markup *tele.ReplyMarkup) []string {
	var out []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.Text)
		}
	}
	return out
}

func newTestView() (*chatView, *fakeMessenger) {
	m := &fakeMessenger{}
	return newChatView(m, &tele.Chat{ID: 1}, 64, logger.Nop()), m
}

func TestFlushSendsPlaceholderOnce(t *testing.T) {
	v, m := newTestView()

	v.flush(codegen.KindQR)
	v.flush(codegen.KindQR)

	assert.Equal(t, 1, m.sent)
	assert.Zero(t, m.media)
	assert.Zero(t, m.markups)
	assert.Equal(t, []string{"• QR", "Bar"}, buttons(m.lastMarkup))
}

func TestFlushEditsPhotoWithActions(t *testing.T) {
	v, m := newTestView()
	v.flush(codegen.KindQR)

	v.UpdatePreview(image.NewRGBA(image.Rect(0, 0, 64, 64)))
	v.SetPlaceholderVisible(false)
	v.SetActionsEnabled(true)
	v.flush(codegen.KindQR)

	assert.Equal(t, 1, m.sent)
	assert.Equal(t, 1, m.media)
	assert.Equal(t, []string{"• QR", "Bar", "Save", "Copy"}, buttons(m.lastMarkup))
}

func TestFlushKindChangeOnlyEditsMarkup(t *testing.T) {
	v, m := newTestView()
	v.flush(codegen.KindQR)

	v.flush(codegen.KindBar)

	assert.Equal(t, 1, m.sent)
	assert.Equal(t, 1, m.markups)
	assert.Equal(t, []string{"QR", "• Bar"}, buttons(m.lastMarkup))
}

func TestFlushWithoutPreviewHidesActions(t *testing.T) {
	v, m := newTestView()
	v.SetActionsEnabled(true)

	v.flush(codegen.KindQR)

	assert.Equal(t, []string{"• QR", "Bar"}, buttons(m.lastMarkup))
}

func TestFlushFailureResendsMessage(t *testing.T) {
	v, m := newTestView()
	v.flush(codegen.KindQR)

	m.failNext = true
	v.flush(codegen.KindBar)
	assert.Nil(t, v.message)

	v.flush(codegen.KindBar)
	assert.Equal(t, 2, m.sent)
	require.NotNil(t, v.message)
}

func TestAlerterFormatsReadableError(t *testing.T) {
	m := &fakeMessenger{}
	chatAlerter{bot: m, chat: &tele.Chat{ID: 1}, logger: logger.Nop()}.Alert(errorz.SaveWriteFailed)

	require.Len(t, m.texts, 1)
	assert.Contains(t, m.texts[0], errorz.SaveWriteFailed.Error())
	assert.Contains(t, m.texts[0], "⛔")
}

func TestChosenName(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"-", "qr-default.png"},
		{"  invoice  ", "invoice"},
		{"../../etc/passwd", "passwd"},
		{"/abs/path/code.png", "code.png"},
		{"", ""},
		{"   ", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chosenName(tt.text, "qr-default.png"), tt.text)
	}
}

func TestParseSwitch(t *testing.T) {
	for _, on := range []string{"on", "ON", "true", "1", "yes"} {
		v, err := parseSwitch(on)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, off := range []string{"off", "false", "0", "no"} {
		v, err := parseSwitch(off)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := parseSwitch("maybe")
	assert.ErrorIs(t, err, errorz.ErrInvalidValue)
}

func TestFormatSettings(t *testing.T) {
	got := formatSettings(preferences.Defaults())
	assert.Contains(t, got, "Live generation: on")
	assert.Contains(t, got, "Resolution: 200px")
	assert.Contains(t, got, "Style: white")
	assert.Contains(t, got, "QR correction level: M")
}
