package dto

import "encoding/json"

type CreateScoreboardRequest struct {
	Title        string          `json:"title"`
	Visibility   string          `json:"visibility"`
	Theme        string          `json:"theme"`
	CustomTheme  json.RawMessage `json:"custom_theme,omitempty"`
	KioskEnabled bool            `json:"kiosk_enabled"`
}

type UpdateScoreboardRequest struct {
	Title        *string         `json:"title"`
	Visibility   *string         `json:"visibility"`
	Theme        *string         `json:"theme"`
	CustomTheme  json.RawMessage `json:"custom_theme,omitempty"`
	KioskEnabled *bool           `json:"kiosk_enabled"`
}

type CreateEntryRequest struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

type UpdateEntryRequest struct {
	Name  *string `json:"name"`
	Score *int64  `json:"score"`
}

type ImportEntriesRequest struct {
	Entries []CreateEntryRequest `json:"entries"`
}
