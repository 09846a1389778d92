package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"autoparts-catalog/internal/config"
	"autoparts-catalog/internal/db"
	"autoparts-catalog/internal/importer"
	categoryrepo "autoparts-catalog/internal/repository/category"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Destination CSV path (default stdout)")
	flag.Parse()

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, db.PoolSettings{})
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	out := os.Stdout
	if filePath != "" {
		out, err = os.Create(filePath)
		if err != nil {
			log.Fatalf("create file: %v", err)
		}
		defer out.Close()
	}

	repo := categoryrepo.NewPostgres(pool, nil)
	count, err := importer.ExportCSV(ctx, repo, out)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	if filePath != "" {
		fmt.Printf("Exported %d categories to %s\n", count, filePath)
	}
}
