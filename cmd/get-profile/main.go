package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vrsandeep/chesscom-helper/internal/core"
	"github.com/vrsandeep/chesscom-helper/internal/livecheck"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: get-profile <username>")
		os.Exit(2)
	}

	// Initialize the core application components
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := livecheck.NewService(app).Tracker().FetchProfile(ctx, os.Args[1])
	if err != nil {
		app.Close()
		log.Fatalf("Failed to fetch profile: %v", err)
	}

	fmt.Println(result.Message)
	fmt.Printf("Player ID: %d\n", result.Player.PlayerID)
	fmt.Printf("Name: %s\n", result.Player.DisplayName())
	fmt.Printf("Followers: %d\n", result.Player.Followers)
}
