// Package config defines the root CLI structure parsed by kong.
package config

import (
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/cmd"
)

// Log holds the logging flags shared by every command.
type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"SENTAKKI_LOG_LEVEL"`
	File    string `help:"Log file path (console when empty)" env:"SENTAKKI_LOG_FILE"`
	RawFile string `help:"Raw injection event log file" env:"SENTAKKI_LOG_RAW_FILE"`
}

// CLI is the root command tree.
type CLI struct {
	Config string `help:"Path to a config file" env:"SENTAKKI_CONFIG"`
	Log    Log    `embed:"" prefix:"log."`

	Run       cmd.Run           `cmd:"" default:"withargs" help:"Map a controller to synthetic touch, mouse or keyboard input"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
