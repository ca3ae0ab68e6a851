// cmd/tools/skilldic-loader/main.go
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"skillmatch/internal/common/config"
	"skillmatch/internal/store"
	"skillmatch/pkg/skilldic"
)

func main() {
	path := flag.String("file", "", "Path to the skill dictionary JSON file")
	dryRun := flag.Bool("dry-run", false, "Validate the file without writing to the database")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall load timeout")
	flag.Parse()

	if *path == "" {
		fmt.Println("Error: -file is required.")
		flag.Usage()
		os.Exit(1)
	}

	dic, err := skilldic.LoadDictionary(*path)
	if err != nil {
		fmt.Printf("Error loading dictionary: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded dictionary version %s: %d entries, %d dimensions\n",
		dic.Version, len(dic.Entries), dic.Dimension)

	if *dryRun {
		fmt.Println("Dry run, nothing written.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.Postgres.GetDSN())
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	inserted, err := upsertDictionary(ctx, db, dic)
	if err != nil {
		fmt.Printf("Error loading dictionary into database: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Upserted %d skills into skill_embedding_dic\n", inserted)
}

func upsertDictionary(ctx context.Context, db *sql.DB, dic *skilldic.Dictionary) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO skill_embedding_dic (skill, category, embedding)
		VALUES ($1, $2, CAST($3 AS vector))
		ON CONFLICT (skill)
		DO UPDATE SET category = EXCLUDED.category, embedding = EXCLUDED.embedding`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, entry := range dic.Entries {
		if _, err := stmt.ExecContext(ctx, entry.Skill, entry.Category, store.EncodeVector(entry.Vector)); err != nil {
			return count, fmt.Errorf("upsert %q: %w", entry.Skill, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}
