// Package notify pushes order notifications to the staff Telegram chat.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"restaurant-sync/models"
)

type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, adminChatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{api: api, chatID: adminChatID}, nil
}

func (t *Telegram) NotifyNewOrder(o *models.Order) error {
	text := fmt.Sprintf("New order #%d\nTable: %s\nItems: %s\nTotal: %.2f",
		o.ID, o.TableNumber, o.Items, o.TotalPrice)
	_, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text))
	return err
}
