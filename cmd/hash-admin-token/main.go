package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/vrsandeep/chesscom-helper/internal/auth"
)

// Prints a bcrypt hash for admin.token_hash. Without -token a random token
// is generated and printed alongside it.
func main() {
	token := flag.String("token", "", "Token to hash (generated when empty)")
	cost := flag.Int("cost", auth.DefaultCost, "bcrypt cost")
	flag.Parse()

	if *token == "" {
		generated, err := auth.GenerateToken(32)
		if err != nil {
			log.Fatalf("Could not generate token: %v", err)
		}
		*token = generated
	}

	hash, err := auth.HashToken(*token, *cost)
	if err != nil {
		log.Fatalf("Could not hash token: %v", err)
	}

	fmt.Println("==================================================")
	fmt.Printf("Token: %s\n", *token)
	fmt.Printf("Hash:  %s\n", hash)
	fmt.Println("Set admin.token_hash (or CHESS_ADMIN_TOKEN_HASH) to the hash")
	fmt.Println("and send the token in the X-Admin-Token header.")
	fmt.Println("==================================================")
}
