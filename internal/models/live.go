package models

// LiveGame is an in-progress game waiting for a move.
type LiveGame struct {
	URL         string `json:"url"`
	Turn        string `json:"turn"`
	MoveBy      int64  `json:"move_by"`
	TimeControl string `json:"time_control"`
}

// LiveGamesResult is the outcome of one live games check for a player.
type LiveGamesResult struct {
	Username   string     `json:"username"`
	IsPlaying  bool       `json:"is_playing"`
	LiveGames  []LiveGame `json:"live_games"`
	TotalGames int        `json:"total_games"`
}

// StatusUpdate describes how a player's playing flag moved during a check.
type StatusUpdate struct {
	Username      string     `json:"username"`
	WasPlaying    bool       `json:"was_playing"`
	IsNowPlaying  bool       `json:"is_now_playing"`
	StatusChanged bool       `json:"status_changed"`
	LiveGames     []LiveGame `json:"live_games"`
}

// StartedPlaying reports a genuine not-playing to playing transition.
// StatusChanged is implied by the other two flags but is checked anyway.
func (u *StatusUpdate) StartedPlaying() bool {
	return !u.WasPlaying && u.IsNowPlaying && u.StatusChanged
}

// ProfileResult is returned after a profile has been fetched and stored.
type ProfileResult struct {
	Message string  `json:"message"`
	Player  *Player `json:"user"`
	Created bool    `json:"-"`
}
