package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/loandesk/internal/loans/app"
)

func main() {
	flags := pflag.NewFlagSet("loandesk", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", os.Getenv("LOANDESK_CONFIG"), "path to a YAML config file")
	migrateOnly := flags.Bool("migrate-only", false, "apply database migrations and exit")
	showVersion := flags.Bool("version", false, "print the build version and exit")
	_ = flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(app.BuildVersion)
		return
	}

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *migrateOnly {
		if err := app.Migrate(cfg); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
