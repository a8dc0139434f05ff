package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/constants"
)

func main() {
	userID := flag.String("user", "", "user UUID to issue the token for")
	role := flag.String("role", "pilot", "role claim: pilot, instructor or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("missing -user")
	}

	switch constants.UserRole(*role) {
	case constants.RolePilot, constants.RoleInstructor, constants.RoleAdmin:
	default:
		log.Fatalf("unknown role: %s", *role)
	}

	token, err := auth.GenerateToken(*userID, constants.UserRole(*role), *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
