// Package state provides a lightweight FSM/session manager for Telegram bots.
// Sessions are keyed per user per chat; transitions are atomic per key so two
// racing updates from the same conversation cannot both claim a pending step.
package state
