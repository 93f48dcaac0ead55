package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestStartPromptIsBold(t *testing.T) {
	h := menuHandlers(&accountStore{})
	c := newRecordingContext("/start", &tele.User{ID: 7})

	require.NoError(t, h.Start(c))
	require.Len(t, c.sent, 1)
	assert.Equal(t, "*Choose an option:*", c.sent[0])
}
