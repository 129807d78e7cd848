package main

import (
	"flag"
	"log"

	"github.com/uptrace/bun/migrate"

	"github.com/mmchougule/private-position-ee/pkg/config"
	"github.com/mmchougule/private-position-ee/pkg/migrations/journaldb"
	"github.com/mmchougule/private-position-ee/pkg/pgutil"
	mghelper "github.com/mmchougule/private-position-ee/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}
	if !cfg.Database.Enabled() {
		log.Fatal("database.host is not configured; nothing to migrate")
	}

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for journal database (%s)...\n", cfg.Database.Database)

	migrator := migrate.NewMigrator(db, journaldb.Migrations)
	if err := mghelper.RunMigrations(migrator, flag.Args()...); err != nil {
		mghelper.Exitf(err.Error())
	}
}
