// Package main provides a CLI tool for minting dev session tokens for the
// campus gateway. These tokens use a dev signing key and will NOT be accepted
// by a production backend.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	devSigningKey = "dev-secret-key-change-in-production"
	defaultTTL    = 24 * time.Hour
)

type tokenOutput struct {
	Token     string `json:"token"`
	Kind      string `json:"kind"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	kind := flag.String("kind", "member", "Account class for the token: admin or member")
	userID := flag.String("user-id", "", "Principal ID (UUID). Generated if empty.")
	email := flag.String("email", "dev@example.test", "Principal email claim")
	tenantID := flag.String("tenant-id", "", "Community ID claim (optional)")
	ttl := flag.Duration("ttl", defaultTTL, "Token time-to-live")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	if *kind != "admin" && *kind != "member" {
		fmt.Fprintf(os.Stderr, "unknown kind %q: want admin or member\n", *kind)
		os.Exit(2)
	}

	subject := *userID
	if subject == "" {
		subject = uuid.New().String()
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": *email,
		"kind":  *kind,
		"iat":   now.Unix(),
		"exp":   now.Add(*ttl).Unix(),
	}
	if *tenantID != "" {
		claims["tenant_id"] = *tenantID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(devSigningKey))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     signed,
			Kind:      *kind,
			ExpiresIn: ttl.String(),
			Usage:     "seed the session store " + *kind + " token slot for local testing",
		}
		encoded, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(encoded))
		return
	}

	fmt.Println(signed)
}
