package main

import (
	"context"
	"log"

	"autoparts-catalog/internal/config"
	"autoparts-catalog/internal/db"
	"autoparts-catalog/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, db.PoolSettings{})
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	log.Println("migrations applied")
}
