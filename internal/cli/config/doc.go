// Package config holds per-user preferences for the gmm7550 CLI.
//
// Preferences live in a YAML file (default $XDG_CONFIG_HOME/gmm7550/cli.yaml)
// and supply defaults for the global flags. Precedence, highest first:
// command-line flag, GMM7550_* environment variable, preferences file,
// built-in default.
//
//	config: usb
//	config_dir: boards     # relative to the file's directory
//	output: yaml
//	log_level: info
package config
