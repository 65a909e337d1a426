package service

import (
	"strings"

	"github.com/RedBear961/qrcreator/pkg/logger/types"
	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"
)

type chatSender interface {
	ChatByID(id int64) (*tele.Chat, error)
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// NotifyService forwards log entries to a Telegram chat.
type NotifyService struct {
	bot    chatSender
	logger *types.Logger
}

func NewNotifyService(bot chatSender, logger *types.Logger) *NotifyService {
	return &NotifyService{
		bot:    bot,
		logger: logger,
	}
}

// LogHook returns a log hook for the specified chat
//
// Parameters:
//   - chatID is the chat to send the log to
//   - level is the minimum log level to send
func (s *NotifyService) LogHook(chatID int64, level zapcore.Level) (types.LogHook, error) {
	chat, err := s.bot.ChatByID(chatID)
	if err != nil {
		return nil, err
	}
	return func(log types.Log) {
		if log.Level < level || strings.Contains(log.Message, "failed to send log to chat") {
			return
		}
		if _, err := s.bot.Send(chat, log.Format(), tele.ModeHTML); err != nil {
			s.logger.Errorf("failed to send log to chat %d: %v", chatID, err)
		}
	}, nil
}
