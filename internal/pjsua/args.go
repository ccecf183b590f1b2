package pjsua

import (
	"strconv"

	"sip-bridge/internal/config"
)

// ConfigArgs builds the pjsua command line for the configured account.
// --null-audio keeps pjsua off the sound device, and --stdout-refresh
// keeps the scripted console responsive without a tty so commands can be
// written to stdin.
func ConfigArgs(cfg config.Config) []string {
	args := []string{
		"--id", cfg.AccountURI(),
		"--registrar", "sip:" + cfg.SIPServer,
		"--realm", "*",
		"--username", cfg.Extension,
		"--password", cfg.Password,
		"--local-port", strconv.Itoa(cfg.Port),
		"--null-audio",
		"--no-color",
		"--stdout-refresh", "5",
	}
	if cfg.AutoAnswer {
		args = append(args, "--auto-answer", "200")
	}
	return args
}
