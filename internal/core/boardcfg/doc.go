// Package boardcfg resolves GMM-7550 board configurations by name.
//
// A configuration is a named bag of attributes (SPI bus, cfg mode, pin
// rename table, ...). Definitions are registered in a Registry, either
// from the YAML files embedded in this package, from a user directory,
// or from Go code. Config gives uniform read access over a resolved
// definition: attributes a board does not declare read as nil.
//
// Names are case-insensitive and normalized to lower case.
//
//	cfg := boardcfg.New("HAT") // exits the process if "hat" is unknown
//	bus := cfg.Int("spi.bus")
//	pin, _ := cfg.Pin("cfg_done")
package boardcfg
