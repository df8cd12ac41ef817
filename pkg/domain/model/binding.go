package model

import "time"

// ChannelBinding maps a chat channel to the store its questions are answered from
type ChannelBinding struct {
	ChannelID string
	StoreID   StoreID
	UpdatedAt time.Time
}
