package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/yndnr/gmm7550-go/internal/cli/config"
	"github.com/yndnr/gmm7550-go/internal/cli/output"
	"github.com/yndnr/gmm7550-go/internal/core/boardcfg"
	"github.com/yndnr/gmm7550-go/internal/core/domain"
	"github.com/yndnr/gmm7550-go/internal/infra/buildinfo"
	"github.com/yndnr/gmm7550-go/internal/telemetry/logger"
)

// envOverridePrefix marks environment variables that override board
// attributes. It is distinct from the GMM7550_ flag variables so that
// GMM7550_CONFIG never leaks into the attribute set.
const envOverridePrefix = "GMM7550_SET_"

const registryKey = "registry"

// exitFunc ends the process when a configuration cannot be loaded.
var exitFunc = os.Exit

// errConfigAborted is returned only when exitFunc does not exit.
var errConfigAborted = errors.New("configuration not loaded")

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "gmm7550",
		Usage:   "Inspect GMM-7550 board configurations and configuration modes",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ConfigCommand(),
			ModeCommand(),
			PrefsCommand(),
			VersionCommand(),
		},
		Before: before,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "prefs",
			Usage:   "Preferences file supplying flag defaults",
			EnvVars: []string{"GMM7550_PREFS"},
			Value:   cliconfig.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Board configuration name",
			EnvVars: []string{"GMM7550_CONFIG"},
			Value:   "hat",
		},
		&cli.StringFlag{
			Name:    "config-dir",
			Usage:   "Directory of additional *.yaml board definitions",
			EnvVars: []string{"GMM7550_CONFIG_DIR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			EnvVars: []string{"GMM7550_LOG_LEVEL"},
			Value:   "warn",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format: text, json",
			EnvVars: []string{"GMM7550_LOG_FORMAT"},
			Value:   "text",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Prefs     string
	Config    string
	ConfigDir string

	// Output format
	Output string // table, json, yaml
	Wide   bool

	LogLevel  string
	LogFormat string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Prefs:     c.String("prefs"),
		Config:    c.String("config"),
		ConfigDir: c.String("config-dir"),
		Output:    c.String("output"),
		Wide:      c.Bool("wide"),
		LogLevel:  c.String("log-level"),
		LogFormat: c.String("log-format"),
	}
}

// before validates global flags, installs the logger and builds the
// registry used by every subcommand.
func before(c *cli.Context) error {
	if err := applyPreferences(c); err != nil {
		return err
	}
	flags := ParseGlobalFlags(c)

	if _, err := output.ParseFormat(flags.Output); err != nil {
		return err
	}

	l, err := logger.New(logger.Config{
		Level:  flags.LogLevel,
		Format: flags.LogFormat,
		Output: errWriter(c),
	})
	if err != nil {
		return err
	}
	logger.SetDefault(l)
	c.Context = logger.WithLogger(c.Context, l)

	reg := boardcfg.Default()
	if flags.ConfigDir != "" {
		reg = reg.Clone()
		if _, err := reg.LoadDir(flags.ConfigDir); err != nil {
			return fmt.Errorf("load definitions: %w", err)
		}
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[registryKey] = reg
	return nil
}

// applyPreferences fills global flags that were not given on the command
// line or through the environment from the preferences file.
func applyPreferences(c *cli.Context) error {
	prefs, err := cliconfig.Load(c.String("prefs"))
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	for name, value := range prefs.FlagValues() {
		if c.IsSet(name) {
			continue
		}
		if err := c.Set(name, value); err != nil {
			return fmt.Errorf("preference %s: %w", name, err)
		}
	}
	return nil
}

// GetRegistry returns the registry prepared by the Before hook, or the
// default registry when the hook has not run.
func GetRegistry(c *cli.Context) *boardcfg.Registry {
	if reg, ok := c.App.Metadata[registryKey].(*boardcfg.Registry); ok {
		return reg
	}
	return boardcfg.Default()
}

// loadConfig resolves name, or the --config value when name is empty.
// An unknown name aborts the process with the two-line diagnostic of
// boardcfg.New.
func loadConfig(c *cli.Context, name string) (*boardcfg.Config, error) {
	if name == "" {
		name = ParseGlobalFlags(c).Config
	}
	cfg := boardcfg.New(name,
		boardcfg.WithRegistry(GetRegistry(c)),
		boardcfg.WithEnvOverrides(envOverridePrefix),
		boardcfg.WithStderr(errWriter(c)),
		boardcfg.WithExitFunc(exitFunc),
	)
	if cfg == nil {
		return nil, errConfigAborted
	}
	return cfg, nil
}

// printResult renders data in the format selected by --output.
func printResult(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return err
	}
	return output.NewFormatter(format, flags.Wide).Format(writer(c), data)
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// requireArgs fails when fewer than n positional arguments were given.
func requireArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() < n {
		return domain.ErrMissingArgument.WithDetails(usage)
	}
	return nil
}
