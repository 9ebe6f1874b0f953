package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"mini-bookstore/internal/auth"
)

// token prints a signed bearer token for local testing against the API.
// The secret and issuer must match the server's JWT_SECRET and JWT_ISSUER.
func main() {
	userID := flag.String("user", "", "user id carried in the token (required)")
	role := flag.String("role", "", "role claim, e.g. admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "HS256 signing secret")
	issuer := flag.String("issuer", envOr("JWT_ISSUER", "bookstore-auth"), "token issuer")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}
	if *secret == "" {
		log.Fatal("JWT_SECRET or -secret is required")
	}

	token, expires, err := auth.NewTokenManager(*secret, *issuer).Generate(*userID, *role, *ttl)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "expires %s\n", expires.Format(time.RFC3339))
	fmt.Println(token)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
