// Command main seeds the database with demo data.
package main

import (
	"flag"
	"log"

	"tourdiary/internal/config"
	"tourdiary/internal/database"
	"tourdiary/internal/middleware"
	"tourdiary/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 8, "number of users to create")
	numReleases := flag.Int("releases", 40, "number of releases to create")
	clean := flag.Bool("clean", false, "delete existing data first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *numUsers,
		NumReleases: *numReleases,
		ShouldClean: *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
