package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/gmm7550-go/internal/core/domain"
)

// ModeCommand returns the mode subcommand group.
func ModeCommand() *cli.Command {
	return &cli.Command{
		Name:  "mode",
		Usage: "Configuration mode (CFG_MODE pin) commands",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every valid configuration mode",
				Action: modeList,
			},
			{
				Name:      "decode",
				Usage:     "Decode a CFG_MODE value (decimal, 0x.. or 0b..)",
				ArgsUsage: "VALUE",
				Action:    modeDecode,
			},
			{
				Name:      "encode",
				Usage:     "Encode a configuration mode name",
				ArgsUsage: "NAME",
				Action:    modeEncode,
			},
		},
	}
}

type modeRow struct {
	Name      string `json:"name" yaml:"name"`
	Value     int    `json:"value" yaml:"value"`
	Binary    string `json:"binary" yaml:"binary"`
	Interface string `json:"interface" yaml:"interface" table:"wide"`
	Role      string `json:"role,omitempty" yaml:"role,omitempty" table:"wide"`
}

func newModeRow(m domain.CfgMode) modeRow {
	row := modeRow{
		Name:   m.String(),
		Value:  m.Value(),
		Binary: m.Binary(),
	}
	switch {
	case m.IsJTAG():
		row.Interface = "jtag"
	case m.IsPassive():
		row.Interface = "spi"
		row.Role = "passive"
	default:
		row.Interface = "spi"
		row.Role = "active"
	}
	return row
}

func modeList(c *cli.Context) error {
	modes := domain.ValidCfgModes()
	rows := make([]modeRow, 0, len(modes))
	for _, m := range modes {
		rows = append(rows, newModeRow(m))
	}
	return printResult(c, rows)
}

func modeDecode(c *cli.Context) error {
	if err := requireArgs(c, 1, "VALUE"); err != nil {
		return err
	}
	arg := c.Args().First()

	v, err := domain.ParseCfgModeValue(arg)
	if err != nil {
		return err
	}
	m, err := domain.CfgModeFromValue(v)
	if err != nil {
		return err
	}
	return printResult(c, []modeRow{newModeRow(m)})
}

func modeEncode(c *cli.Context) error {
	if err := requireArgs(c, 1, "NAME"); err != nil {
		return err
	}
	m, err := domain.ParseCfgMode(c.Args().First())
	if err != nil {
		return err
	}
	return printResult(c, []modeRow{newModeRow(m)})
}
