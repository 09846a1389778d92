package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"autoparts-catalog/internal/config"
	"autoparts-catalog/internal/db"
	"autoparts-catalog/internal/importer"
	categoryrepo "autoparts-catalog/internal/repository/category"
	"autoparts-catalog/internal/service/taxonomy"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to category CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, db.PoolSettings{})
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	svc := taxonomy.New(categoryrepo.NewPostgres(pool, nil), nil)
	imp := importer.NewCSVImporter(f, svc)

	start := time.Now()
	result, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d categories in %s\n", result.Imported, time.Since(start).Truncate(time.Millisecond))
	for _, rowErr := range result.Errors {
		fmt.Printf("  line %d (%s): %s\n", rowErr.Line, rowErr.Name, rowErr.Message)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
