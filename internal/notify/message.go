package notify

import (
	"fmt"
	"strings"

	"github.com/vrsandeep/chesscom-helper/internal/models"
)

// LiveMatchSubject is the subject line of a live match notification.
func LiveMatchSubject(player *models.Player) string {
	return fmt.Sprintf("%s is now playing live on Chess.com!", player.Username)
}

// LiveMatchBody lists every live game's time control and URL.
func LiveMatchBody(player *models.Player, liveGames []models.LiveGame) string {
	details := make([]string, 0, len(liveGames))
	for _, game := range liveGames {
		timeControl := game.TimeControl
		if timeControl == "" {
			timeControl = "Unknown"
		}
		gameURL := game.URL
		if gameURL == "" {
			gameURL = "#"
		}
		details = append(details, fmt.Sprintf("- Time Control: %s\n  Game URL: %s", timeControl, gameURL))
	}

	var b strings.Builder
	b.WriteString("Hi!\n\n")
	fmt.Fprintf(&b, "%s (%s) has started playing live matches on Chess.com!\n\n", player.Username, player.DisplayName())
	b.WriteString("Game Details:\n")
	b.WriteString(strings.Join(details, "\n"))
	b.WriteString("\n\nYou can watch the games live by visiting the URLs above.\n\n")
	b.WriteString("---\n")
	fmt.Fprintf(&b, "This notification was sent because you subscribed to updates for %s.\n", player.Username)
	b.WriteString("To unsubscribe, please contact the site administrator.")
	return b.String()
}
