// Package main provides the entry point for gmm7550.
//
// gmm7550 inspects board configurations for the GMM-7550 FPGA module:
//
//   - List and show the registered carrier definitions (hat, usb, jtag)
//     plus any user definitions from --config-dir
//   - Look up attributes and translate logical signal names to pins
//   - Encode and decode CFG_MODE values
//
// Usage:
//
//	gmm7550 config list
//	gmm7550 -c usb config pin cfg_done rst_n
//	gmm7550 --config-dir ./boards config show bench --watch
//	gmm7550 mode decode 0b1100
package main
