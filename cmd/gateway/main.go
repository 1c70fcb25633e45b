package main

import (
	"context"
	"log"
	"os"

	"github.com/campusdesk/campusdesk/internal/buildinfo"
	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/gateway"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(gateway.DefaultAddr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := gateway.NewApp(ctx, cfg, os.Stdout).Run(ctx); err != nil {
		os.Exit(1)
	}

}
