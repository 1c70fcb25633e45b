package main

import (
	"fmt"
	"os"

	"github.com/campusdesk/campusdesk/internal/accountctl"
)

func main() {
	if err := accountctl.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
