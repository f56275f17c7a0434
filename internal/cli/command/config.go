package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/gmm7550-go/internal/cli/output"
	"github.com/yndnr/gmm7550-go/internal/core/boardcfg"
	"github.com/yndnr/gmm7550-go/internal/core/domain"
	"github.com/yndnr/gmm7550-go/internal/infra/confloader"
	"github.com/yndnr/gmm7550-go/internal/infra/shutdown"
	"github.com/yndnr/gmm7550-go/internal/telemetry/logger"
)

// unsetValue is printed for attributes the board does not declare.
const unsetValue = "<unset>"

// watchDebounce coalesces the burst of events an editor emits per save.
const watchDebounce = 100 * time.Millisecond

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Board configuration commands",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List registered board configurations",
				Action: configList,
			},
			{
				Name:      "show",
				Usage:     "Show every attribute of a board configuration",
				ArgsUsage: "[NAME]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Re-print when a definition under --config-dir changes",
					},
				},
				Action: configShow,
			},
			{
				Name:      "get",
				Usage:     "Print attribute values",
				ArgsUsage: "KEY...",
				Action:    configGet,
			},
			{
				Name:      "pin",
				Usage:     "Translate logical signal names through the board pin table",
				ArgsUsage: "SIGNAL...",
				Action:    configPin,
			},
		},
	}
}

type configRow struct {
	Name        string `json:"name" yaml:"name"`
	CfgMode     string `json:"cfg_mode" yaml:"cfg_mode"`
	Description string `json:"description" yaml:"description"`
	Source      string `json:"source" yaml:"source" table:"wide"`
}

func configList(c *cli.Context) error {
	reg := GetRegistry(c)

	rows := make([]configRow, 0)
	for _, name := range reg.Names() {
		cfg, err := boardcfg.Load(name, boardcfg.WithRegistry(reg))
		if err != nil {
			return err
		}
		row := configRow{
			Name:        cfg.Name(),
			Description: cfg.Description(),
			Source:      cfg.Source(),
		}
		if mode, err := cfg.CfgMode(); err == nil {
			row.CfgMode = mode.String()
		}
		rows = append(rows, row)
	}

	return printResult(c, rows)
}

type configView struct {
	Name        string         `json:"name" yaml:"name"`
	Source      string         `json:"source" yaml:"source"`
	CfgMode     string         `json:"cfg_mode,omitempty" yaml:"cfg_mode,omitempty"`
	Fingerprint string         `json:"fingerprint" yaml:"fingerprint"`
	Attributes  map[string]any `json:"attributes" yaml:"attributes"`
}

func newConfigView(cfg *boardcfg.Config) configView {
	view := configView{
		Name:        cfg.Name(),
		Source:      cfg.Source(),
		Fingerprint: fmt.Sprintf("%016x", cfg.Fingerprint()),
		Attributes:  cfg.All(),
	}
	if mode, err := cfg.CfgMode(); err == nil {
		view.CfgMode = mode.String()
	}
	return view
}

func configShow(c *cli.Context) error {
	name := c.Args().First()
	cfg, err := loadConfig(c, name)
	if err != nil {
		return err
	}

	if err := renderConfig(c, cfg); err != nil {
		return err
	}
	if !c.Bool("watch") {
		return nil
	}
	return watchConfig(c, cfg)
}

func renderConfig(c *cli.Context, cfg *boardcfg.Config) error {
	view := newConfigView(cfg)
	flags := ParseGlobalFlags(c)
	if format, _ := output.ParseFormat(flags.Output); format != output.FormatTable {
		return printResult(c, view)
	}

	w := writer(c)
	fmt.Fprintf(w, "Name:         %s\n", view.Name)
	fmt.Fprintf(w, "Source:       %s\n", view.Source)
	if view.CfgMode != "" {
		fmt.Fprintf(w, "Cfg mode:     %s\n", view.CfgMode)
	}
	fmt.Fprintf(w, "Fingerprint:  %s\n\n", view.Fingerprint)
	return printResult(c, view.Attributes)
}

// watchConfig re-resolves the configuration whenever a definition file in
// --config-dir changes and prints it again if its attributes differ. It
// returns when the process is interrupted or c.Context is cancelled.
func watchConfig(c *cli.Context, cfg *boardcfg.Config) error {
	dir := ParseGlobalFlags(c).ConfigDir
	if dir == "" {
		return domain.ErrMissingArgument.WithDetails("--watch requires --config-dir")
	}

	log := logger.L(logger.WithCommand(logger.WithConfigName(c.Context, cfg.Name()), "config show"))

	w, err := confloader.NewWatcher(
		confloader.WithExtensions(".yaml", ".yml"),
		confloader.WithDebounce(watchDebounce),
		confloader.WithWatcherLogger(logger.Slog(logger.Default())),
	)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx, stop := shutdown.WithSignals(c.Context)
	defer stop()

	h := shutdown.NewHandler(5 * time.Second)
	h.OnShutdown(func(context.Context) error { return w.Stop() })
	defer h.Shutdown()

	changes := make(chan struct{}, 1)
	w.OnChange(func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err := w.Watch(dir); err != nil {
		return err
	}
	w.StartAsync()

	name := cfg.Name()
	last := cfg.Fingerprint()
	for {
		select {
		case <-ctx.Done():
			return h.Shutdown()
		case <-changes:
			next, err := reloadConfig(dir, name)
			if err != nil {
				log.Warn("reload failed", "dir", dir, "error", err)
				continue
			}
			fp := next.Fingerprint()
			if fp == last {
				log.Debug("definition unchanged", "fingerprint", fmt.Sprintf("%016x", fp))
				continue
			}
			last = fp
			fmt.Fprintln(writer(c))
			if err := renderConfig(c, next); err != nil {
				return err
			}
		}
	}
}

// reloadConfig rebuilds the registry from the built-ins plus dir so that
// edits and removals under dir are both picked up.
func reloadConfig(dir, name string) (*boardcfg.Config, error) {
	reg := boardcfg.Default().Clone()
	if _, err := reg.LoadDir(dir); err != nil {
		return nil, err
	}
	return boardcfg.Load(name,
		boardcfg.WithRegistry(reg),
		boardcfg.WithEnvOverrides(envOverridePrefix),
	)
}

type attributeRow struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

func configGet(c *cli.Context) error {
	if err := requireArgs(c, 1, "KEY"); err != nil {
		return err
	}
	cfg, err := loadConfig(c, "")
	if err != nil {
		return err
	}

	rows := make([]attributeRow, 0, c.NArg())
	for _, key := range c.Args().Slice() {
		rows = append(rows, attributeRow{Key: key, Value: cfg.Get(key)})
	}

	flags := ParseGlobalFlags(c)
	if format, _ := output.ParseFormat(flags.Output); format != output.FormatTable {
		return printResult(c, rows)
	}

	table := &output.Table{Headers: []string{"KEY", "VALUE"}}
	for _, row := range rows {
		table.AddRow(row.Key, displayValue(row.Value))
	}
	return printResult(c, table)
}

// displayValue formats an attribute for a table cell.
func displayValue(v any) string {
	if v == nil {
		return unsetValue
	}
	return fmt.Sprint(v)
}

type pinRow struct {
	Signal string `json:"signal" yaml:"signal"`
	Pin    string `json:"pin" yaml:"pin"`
}

func configPin(c *cli.Context) error {
	if err := requireArgs(c, 1, "SIGNAL"); err != nil {
		return err
	}
	cfg, err := loadConfig(c, "")
	if err != nil {
		return err
	}

	rows := make([]pinRow, 0, c.NArg())
	for _, signal := range c.Args().Slice() {
		pin, err := cfg.Pin(signal)
		if err != nil {
			return fmt.Errorf("configuration %q: %w", cfg.Name(), err)
		}
		rows = append(rows, pinRow{Signal: signal, Pin: pin})
	}
	return printResult(c, rows)
}
