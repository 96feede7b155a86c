package main

import (
	"context"
	"flag"
	"log"

	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/config"
	"github.com/jocoker/cse340/seeds"
)

func main() {
	path := flag.String("file", "", "seed YAML file (default: built-in data)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatalf("❌ Database: %v", err)
	}

	f, err := seeds.Load(*path)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	res, err := seeds.SeedAll(context.Background(), db, auth.NewBcryptHasher(), f)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	log.Printf("✅ Seeded %d classifications, %d vehicles, %d accounts", res.Classifications, res.Vehicles, res.Accounts)
}
