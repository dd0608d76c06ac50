// Command token issues JWTs signed with JWT_SECRET, for calling the cart API
// from scripts and local tools.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang-cart-backend/configs"
	"golang-cart-backend/pkg/auth"
)

func main() {
	userID := flag.String("user", "", "user id to put in the token")
	role := flag.String("role", "customer", "role claim (customer, support, admin)")
	refresh := flag.Bool("refresh", false, "issue a refresh token instead of an access token")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "token: -user is required")
		flag.Usage()
		os.Exit(2)
	}

	config := configs.LoadConfig()
	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours, config.JWT.RefreshExpiryDays)

	issue := jwtManager.GenerateToken
	if *refresh {
		issue = jwtManager.GenerateRefreshToken
	}

	token, err := issue(*userID, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
