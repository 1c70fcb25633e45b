package main

import (
	"context"
	"log"
	"os"

	"github.com/campusdesk/campusdesk/internal/buildinfo"
	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/tickets"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(tickets.DefaultAddr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := tickets.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}

}
