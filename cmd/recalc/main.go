// Command recalc recomputes the stored bmr/tdee of every body record owned by
// one user, the same pass the API runs after a profile update. Useful after
// fixing profile data directly in the database.
//
// Usage: recalc <user_id>
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/Avo5/BMIcal-main/internal/database"
	"github.com/Avo5/BMIcal-main/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: recalc <user_id>")
		os.Exit(1)
	}
	userID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid user id %q\n", os.Args[1])
		os.Exit(1)
	}

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("DB_URL environment variable is required")
	}
	if err := database.ConnectDB(dbUrl); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	recalc := services.NewRecalcService(database.DB)
	count, err := recalc.RecalculateForUser(context.Background(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Fatalf("User %d not found", userID)
		}
		log.Fatalf("Recalculation failed: %v", err)
	}

	log.Printf("Recalculated %d records for user %d", count, userID)
}
