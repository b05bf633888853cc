package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/database"
	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/metrics"
	"github.com/gatorpickup/pickup/internal/pubsub"
	"github.com/gatorpickup/pickup/internal/roster"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// campusLocations are the courts and fields the app offers.
var campusLocations = []game.Location{
	{ID: "flavet", Name: "Flavet Field", Lat: 29.6499, Lng: -82.3486},
	{ID: "sw-rec-indoor", Name: "SW Rec (Indoor)", Lat: 29.6397, Lng: -82.3534},
	{ID: "sw-rec-outdoor", Name: "SW Rec (Outdoor)", Lat: 29.6393, Lng: -82.3539},
	{ID: "lake-alice", Name: "Lake Alice Fields", Lat: 29.6428, Lng: -82.3614},
	{ID: "reitz-lawn", Name: "Reitz Lawn", Lat: 29.6462, Lng: -82.3478},
	{ID: "hume", Name: "Hume Field", Lat: 29.6449, Lng: -82.3404},
	{ID: "ring-road", Name: "Ring Road Fields", Lat: 29.6501, Lng: -82.3408},
}

var seedPlayers = []struct {
	ID, Name string
}{
	{"seed-player-1", "Seeder Player A"},
	{"seed-player-2", "Seeder Player B"},
	{"seed-player-3", "Seeder Player C"},
	{"seed-player-4", "Seeder Player D"},
}

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"TURSO_PRIMARY_URL": os.Getenv("TURSO_PRIMARY_URL"),
		"TURSO_AUTH_TOKEN":  os.Getenv("TURSO_AUTH_TOKEN"),
		"SEED_GAMES":        os.Getenv("SEED_GAMES"),
	}
	if value, ok := os.LookupEnv("DB_NAME"); ok {
		config["DB_NAME"] = value
	} else if config["TURSO_PRIMARY_URL"] == "" {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	ctx := context.Background()

	if err := seedLocations(ctx, db); err != nil {
		log.Fatalf("Failed to seed locations: %s", err)
	}
	log.Info("Ensured campus locations exist.", "count", len(campusLocations))

	for _, p := range seedPlayers {
		now := time.Now().UnixMilli()
		_, err := db.ExecContext(ctx, `
			INSERT INTO profiles (id, display_name, onboarded, created_at, updated_at) VALUES (?, ?, 1, ?, ?)
			ON CONFLICT(id) DO NOTHING`, p.ID, p.Name, now, now)
		if err != nil {
			log.Fatalf("Failed to insert seed player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured seed players exist.")

	numGames := 6
	if v, err := strconv.Atoi(cfg["SEED_GAMES"]); err == nil && v > 0 {
		numGames = v
	}

	// Games go through the roster service so they get the same validation and host row as real ones.
	svc := roster.NewService(roster.New(db), metrics.NewService(prometheus.NewRegistry()), pubsub.NewLogOnly())
	sports := []game.Sport{game.SportPickleball, game.SportSpikeball}
	levels := []game.SkillLevel{game.SkillAny, game.SkillBeginner, game.SkillIntermediate, game.SkillAdvanced}

	startTime := time.Now()
	for i := 0; i < numGames; i++ {
		host := seedPlayers[i%len(seedPlayers)]
		location := campusLocations[rand.Intn(len(campusLocations))].ID
		g, err := svc.CreateGame(ctx, game.NewGame{
			HostID:       host.ID,
			Sport:        sports[i%len(sports)],
			SkillLevel:   levels[rand.Intn(len(levels))],
			LocationID:   &location,
			StartsAt:     time.Now().Add(time.Duration(1+rand.Intn(72)) * time.Hour).Truncate(15 * time.Minute),
			MaxPlayers:   4,
			HasEquipment: rand.Intn(2) == 0,
		})
		if err != nil {
			log.Fatalf("Failed to create seed game: %s", err)
		}

		// Fill some of the games with the other seed players.
		joiners := rand.Intn(len(seedPlayers))
		for j := 1; j <= joiners; j++ {
			p := seedPlayers[(i+j)%len(seedPlayers)]
			if _, err := svc.Join(ctx, g.ID, p.ID); err != nil {
				log.Warn("Seed join rejected", "gameID", g.ID, "userID", p.ID, "error", err)
			}
		}
		log.Info("Seeded game", "gameID", g.ID, "sport", g.Sport, "location", location, "startsAt", g.StartsAt)
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded games.", "count", numGames, "duration", duration)
}

func seedLocations(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, l := range campusLocations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO locations (id, name, lat, lng) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, lat = excluded.lat, lng = excluded.lng`,
			l.ID, l.Name, l.Lat, l.Lng)
		if err != nil {
			return fmt.Errorf("failed to upsert location %s: %w", l.ID, err)
		}
	}
	return tx.Commit()
}
