// Command migrate applies or rolls back the ordering schema.
//
//	migrate up        apply every pending migration
//	migrate down [n]  roll back n migrations (default 1)
//	migrate version   print the current schema version
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"ordering/internal/adapters/out/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up | down [n] | version")
		os.Exit(2)
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"), os.Getenv("DB_NAME"), os.Getenv("DB_SSLMODE"))

	m, err := migrations.New(url)
	if err != nil {
		log.Fatalf("Failed to open migrations: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil {
				log.Fatalf("invalid step count %q", os.Args[2])
			}
		}
		err = m.Steps(-steps)
	case "version":
		version, dirty, vErr := m.Version()
		if vErr != nil && !errors.Is(vErr, migrate.ErrNilVersion) {
			log.Fatalf("Failed to read version: %v", vErr)
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return
	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Infof("migrate %s done", os.Args[1])
}
