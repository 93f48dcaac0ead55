package handlers

import (
	tghelpers "github.com/ishulazy/Venomm/core/telegram/helpers"
	"github.com/ishulazy/Venomm/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Start replies with the main reply keyboard, two buttons per row.
func (h *Handlers) Start(c tele.Context) error {
	rows := keyboard.ChunkLabels(MenuLabels(), 2)
	markup := keyboard.ReplyButtonsOneTime(rows...)
	return tghelpers.SendMD(c, "*Choose an option:*", markup)
}
