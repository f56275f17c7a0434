// Package command defines the gmm7550 command tree.
//
// It uses urfave/cli/v2. Global flags select the board configuration,
// an optional directory of user definitions, the output format and the
// logger. Flags left unset fall back to the preferences file. Subcommands:
//
//	config list | show [NAME] [--watch] | get KEY... | pin SIGNAL...
//	mode   list | decode VALUE | encode NAME
//	prefs  show | init [--force]
//	version
package command
