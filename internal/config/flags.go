package config

import (
	"flag"
	"os"

	"github.com/campusdesk/campusdesk/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":5000")
//	-d string     PostgreSQL DSN, or "memory"
//	-s string     token signing secret
//	-t duration   token validity (e.g., "168h")
//	-u string     credential service base URL
//	-r string     reply service base URL
//	-o duration   upstream call timeout
//	-g string     gRPC health address
//	-k string     ticket data directory
//	-l string     log level
//	-allow-role-hint=bool     honour the signup role hint
//	-require-chat-token=bool  require a bearer token on /api/chat
//
// Notes:
//   - os.Args is first filtered to the flags recognized here using
//     flagx.FilterArgs, so -c/-config and foreign flags pass through.
//   - Boolean flags must use the "=value" form or stand alone.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-u", "-r", "-o", "-g", "-k", "-l",
		"-allow-role-hint", "-require-chat-token",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity duration")
	fs.StringVar(&config.AuthServiceURL, "u", config.AuthServiceURL, "credential service URL")
	fs.StringVar(&config.ReplyServiceURL, "r", config.ReplyServiceURL, "reply service URL")
	fs.DurationVar(&config.UpstreamTimeout, "o", config.UpstreamTimeout, "upstream timeout")
	fs.StringVar(&config.HealthAddrGRPC, "g", config.HealthAddrGRPC, "gRPC health address")
	fs.StringVar(&config.TicketDataDir, "k", config.TicketDataDir, "ticket data directory")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.AllowClientRoleHint, "allow-role-hint", config.AllowClientRoleHint, "honour signup role hint")
	fs.BoolVar(&config.RequireChatToken, "require-chat-token", config.RequireChatToken, "require bearer token for chat")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
