package chesscom

import "github.com/vrsandeep/chesscom-helper/internal/models"

// --- Player Profile Types ---
type Profile struct {
	PlayerID           int64                      `json:"player_id"`
	URL                string                     `json:"url"`
	Name               string                     `json:"name"`
	Username           string                     `json:"username"`
	Followers          int                        `json:"followers"`
	Country            string                     `json:"country"`
	Location           string                     `json:"location"`
	LastOnline         int64                      `json:"last_online"`
	Joined             int64                      `json:"joined"`
	Status             string                     `json:"status"`
	IsStreamer         bool                       `json:"is_streamer"`
	Verified           bool                       `json:"verified"`
	League             string                     `json:"league"`
	StreamingPlatforms []models.StreamingPlatform `json:"streaming_platforms"`
}

// --- Games To Move Types ---
type GamesToMoveResponse struct {
	Games []Game `json:"games"`
}

// Game is one entry of the games/to-move listing. MoveBy and Turn are
// zero values when the upstream omits them.
type Game struct {
	URL         string `json:"url"`
	Turn        string `json:"turn"`
	MoveBy      int64  `json:"move_by"`
	TimeControl string `json:"time_control"`
}

// IsLive reports whether the game has both a pending move deadline and a side to move.
func (g Game) IsLive() bool {
	return g.MoveBy != 0 && g.Turn != ""
}
