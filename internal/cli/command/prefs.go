package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/yndnr/gmm7550-go/internal/cli/config"
)

// PrefsCommand returns the prefs subcommand group.
func PrefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "CLI preferences file",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective global settings",
				Action: prefsShow,
			},
			{
				Name:  "init",
				Usage: "Write the effective global settings to the preferences file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: prefsInit,
			},
		},
	}
}

// effectivePrefs snapshots the global flags after preferences were applied.
func effectivePrefs(c *cli.Context) *cliconfig.CLIConfig {
	flags := ParseGlobalFlags(c)
	return &cliconfig.CLIConfig{
		Config:    flags.Config,
		ConfigDir: flags.ConfigDir,
		Output:    flags.Output,
		Wide:      flags.Wide,
		LogLevel:  flags.LogLevel,
		LogFormat: flags.LogFormat,
	}
}

func prefsShow(c *cli.Context) error {
	return printResult(c, effectivePrefs(c))
}

func prefsInit(c *cli.Context) error {
	path := ParseGlobalFlags(c).Prefs
	if path == "" {
		return errors.New("no preferences path: pass --prefs")
	}

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := cliconfig.Save(effectivePrefs(c), path); err != nil {
		return err
	}
	fmt.Fprintf(writer(c), "wrote %s\n", path)
	return nil
}
