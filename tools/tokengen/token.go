package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/giannis84/favorites-admin/internal/auth"
)

func main() {
	userID := flag.String("user", "", "administrator ID to embed in the token (required)")
	rights := flag.String("rights", auth.FavoritesManagementRight, "comma separated admin rights granted by the token")
	secret := flag.String("secret", "", "HMAC signing secret (or set JWT_SECRET env var)")
	expiry := flag.Duration("exp", 8*time.Hour, "token expiry duration (e.g. 1h, 72h)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "error: -user flag is required")
		flag.Usage()
		os.Exit(1)
	}

	signingSecret := *secret
	if signingSecret == "" {
		signingSecret = os.Getenv("JWT_SECRET")
	}

	var granted []string
	for _, right := range strings.Split(*rights, ",") {
		if right = strings.TrimSpace(right); right != "" {
			granted = append(granted, right)
		}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":            *userID,
		"iat":            now.Unix(),
		"exp":            now.Add(*expiry).Unix(),
		auth.RightsClaim: granted,
	}

	var signed string
	if signingSecret == "" {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		var err error
		signed, err = token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating token: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Warning: token is unsigned (alg=none); the service must run with ALLOW_UNSIGNED_TOKENS=true")
	} else {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		var err error
		signed, err = token.SignedString([]byte(signingSecret))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error signing token: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "Token for administrator %s with rights %v (expires %s):\n", *userID, granted, now.Add(*expiry).Format(time.RFC3339))
	fmt.Fprintf(os.Stderr, "Send it as 'Authorization: Bearer <token>' or set it in the %s cookie.\n", auth.TokenCookie)
	fmt.Println(signed)
}
