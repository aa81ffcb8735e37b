package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Player is a tracked Chess.com account mirrored locally. PlayerID is the
// external Chess.com id and never changes; Username is always lower-cased.
type Player struct {
	PlayerID           int64              `json:"player_id"`
	URL                string             `json:"url"`
	Name               string             `json:"name"`
	Username           string             `json:"username"`
	Followers          int                `json:"followers"`
	Country            string             `json:"country"`
	Location           string             `json:"location"`
	LastOnline         int64              `json:"last_online"`
	Joined             int64              `json:"joined"`
	Status             string             `json:"status"`
	IsStreamer         bool               `json:"is_streamer"`
	Verified           bool               `json:"verified"`
	League             string             `json:"league"`
	StreamingPlatforms StreamingPlatforms `json:"streaming_platforms"`
	IsPlaying          bool               `json:"is_playing"`
	CreatedAt          time.Time          `json:"-"`
	UpdatedAt          time.Time          `json:"-"`
}

// DisplayName returns the player's real name, or a generic label when the
// profile has none.
func (p *Player) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return "Chess.com Player"
}

// StreamingPlatform is one streaming channel listed on a profile.
type StreamingPlatform struct {
	Type       string `json:"type"`
	ChannelURL string `json:"channel_url"`
}

// StreamingPlatforms is stored as a JSON array in a single column.
type StreamingPlatforms []StreamingPlatform

// Value implements driver.Valuer.
func (s StreamingPlatforms) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *StreamingPlatforms) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = StreamingPlatforms{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into StreamingPlatforms", src)
	}
	platforms := StreamingPlatforms{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &platforms); err != nil {
			return err
		}
	}
	*s = platforms
	return nil
}
