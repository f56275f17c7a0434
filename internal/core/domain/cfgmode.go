package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CfgMode selects how the GateMate FPGA loads its configuration. The value
// is sampled from the four CFG_MD pins, so it is bit-exact and never
// renumbered.
type CfgMode uint8

const (
	// CfgModeSPIActive0 loads from SPI flash, FPGA drives the clock, SPI mode 0.
	CfgModeSPIActive0 CfgMode = 0b0000
	CfgModeSPIActive1 CfgMode = 0b0001
	CfgModeSPIActive2 CfgMode = 0b0010
	CfgModeSPIActive3 CfgMode = 0b0011

	// CfgModeSPIPassive0 accepts a bitstream from an external SPI master, SPI mode 0.
	CfgModeSPIPassive0 CfgMode = 0b0100
	CfgModeSPIPassive1 CfgMode = 0b0101
	CfgModeSPIPassive2 CfgMode = 0b0110
	CfgModeSPIPassive3 CfgMode = 0b0111

	// Values 0b1000 through 0b1011 are reserved by the device.

	// CfgModeJTAG loads the configuration over JTAG.
	CfgModeJTAG CfgMode = 0b1100
)

// cfgModeMask covers the four CFG_MD pins.
const cfgModeMask = 0b1111

var cfgModeNames = map[CfgMode]string{
	CfgModeSPIActive0:  "SPI_ACTIVE_0",
	CfgModeSPIActive1:  "SPI_ACTIVE_1",
	CfgModeSPIActive2:  "SPI_ACTIVE_2",
	CfgModeSPIActive3:  "SPI_ACTIVE_3",
	CfgModeSPIPassive0: "SPI_PASSIVE_0",
	CfgModeSPIPassive1: "SPI_PASSIVE_1",
	CfgModeSPIPassive2: "SPI_PASSIVE_2",
	CfgModeSPIPassive3: "SPI_PASSIVE_3",
	CfgModeJTAG:        "JTAG",
}

// ValidCfgModes returns all defined modes in ascending value order.
func ValidCfgModes() []CfgMode {
	return []CfgMode{
		CfgModeSPIActive0, CfgModeSPIActive1, CfgModeSPIActive2, CfgModeSPIActive3,
		CfgModeSPIPassive0, CfgModeSPIPassive1, CfgModeSPIPassive2, CfgModeSPIPassive3,
		CfgModeJTAG,
	}
}

// IsValidCfgMode reports whether v is the value of a defined mode.
func IsValidCfgMode(v int) bool {
	if v < 0 || v > cfgModeMask {
		return false
	}
	_, ok := cfgModeNames[CfgMode(v)]
	return ok
}

// isReservedCfgMode reports whether v falls in the device-reserved range.
func isReservedCfgMode(v int) bool {
	return v >= 0b1000 && v <= 0b1011
}

// CfgModeFromValue converts a raw pin value to a mode.
func CfgModeFromValue(v int) (CfgMode, error) {
	if IsValidCfgMode(v) {
		return CfgMode(v), nil
	}
	if isReservedCfgMode(v) {
		return 0, ErrCfgModeReserved.WithDetails(fmt.Sprintf("value %d (0b%04b)", v, v))
	}
	return 0, ErrCfgModeInvalid.WithDetails(fmt.Sprintf("value %d", v))
}

// ParseCfgModeValue parses a raw pin value written in decimal, or in hex
// or binary with a 0x or 0b prefix. A leading zero does not select octal,
// so "014" is fourteen.
func ParseCfgModeValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	base := 10
	if len(digits) > 2 && digits[0] == '0' && strings.ContainsRune("xXbB", rune(digits[1])) {
		base = 0
	}
	v, err := strconv.ParseInt(s, base, 16)
	if err != nil {
		return 0, ErrInvalidArgument.WithDetails("not a number: " + s)
	}
	return int(v), nil
}

// ParseCfgMode converts a mode name to a mode. Names are matched
// case-insensitively; a raw value accepted by ParseCfgModeValue is also
// accepted.
func ParseCfgMode(s string) (CfgMode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for m, n := range cfgModeNames {
		if n == name {
			return m, nil
		}
	}

	if v, err := ParseCfgModeValue(s); err == nil {
		return CfgModeFromValue(v)
	}
	return 0, ErrCfgModeInvalid.WithDetails(fmt.Sprintf("%q", s))
}

// String returns the mode name, or CfgMode(n) for undefined values.
func (m CfgMode) String() string {
	if n, ok := cfgModeNames[m]; ok {
		return n
	}
	return "CfgMode(" + strconv.Itoa(int(m)) + ")"
}

// Value returns the raw 4-bit pin value.
func (m CfgMode) Value() int {
	return int(m)
}

// Binary returns the pin value as four binary digits.
func (m CfgMode) Binary() string {
	return fmt.Sprintf("%04b", uint8(m)&cfgModeMask)
}

// IsValid reports whether m is a defined mode.
func (m CfgMode) IsValid() bool {
	return IsValidCfgMode(int(m))
}

// IsSPI reports whether m loads over SPI.
func (m CfgMode) IsSPI() bool {
	return m <= CfgModeSPIPassive3
}

// IsPassive reports whether an external master drives the SPI clock.
func (m CfgMode) IsPassive() bool {
	return m >= CfgModeSPIPassive0 && m <= CfgModeSPIPassive3
}

// IsJTAG reports whether m loads over JTAG.
func (m CfgMode) IsJTAG() bool {
	return m == CfgModeJTAG
}

// SPIMode returns the SPI clock polarity/phase mode (0-3) encoded in the
// low two bits. ok is false for non-SPI modes.
func (m CfgMode) SPIMode() (mode int, ok bool) {
	if !m.IsSPI() {
		return 0, false
	}
	return int(m & 0b0011), true
}

// MarshalText implements encoding.TextMarshaler.
func (m CfgMode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, ErrCfgModeInvalid.WithDetails(fmt.Sprintf("value %d", uint8(m)))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CfgMode) UnmarshalText(text []byte) error {
	v, err := ParseCfgMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
