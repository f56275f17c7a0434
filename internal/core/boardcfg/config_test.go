package boardcfg

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/gmm7550-go/internal/core/domain"
)

// stubProcess captures the fatal path of New for the duration of a test.
func stubProcess(t *testing.T) (out *bytes.Buffer, code *int) {
	t.Helper()

	out = &bytes.Buffer{}
	exitCode := -1
	code = &exitCode

	oldExit, oldStderr := osExit, stderr
	osExit = func(c int) { exitCode = c }
	stderr = out
	t.Cleanup(func() {
		osExit, stderr = oldExit, oldStderr
	})
	return out, code
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	def, err := NewDefinition(map[string]any{
		"description": "bench board",
		"cfg_mode":    "SPI_PASSIVE_2",
		"spi.bus":     1,
		"spi.device":  0,
		"reset_high":  true,
		"pins": map[string]any{
			"cfg_done": "GPIO25",
			"rst_n":    "GPIO23",
		},
	})
	if err != nil {
		t.Fatalf("NewDefinition() error = %v", err)
	}

	r := NewRegistry()
	r.RegisterDefinition("Bench", def)
	return r
}

func TestLoad_NormalizesName(t *testing.T) {
	r := testRegistry(t)

	for _, name := range []string{"bench", "BENCH", "Bench", "bEnCh"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(name, WithRegistry(r))
			if err != nil {
				t.Fatalf("Load(%q) error = %v", name, err)
			}
			if cfg.Name() != "bench" {
				t.Errorf("Name() = %q, want %q", cfg.Name(), "bench")
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load("GateMate7550", WithRegistry(testRegistry(t)))
	if err == nil {
		t.Fatal("Load() should fail for unregistered name")
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "gatemate7550") {
		t.Errorf("error %q should name the configuration", err)
	}
}

func TestNew_Success(t *testing.T) {
	out, code := stubProcess(t)

	cfg := New("BENCH", WithRegistry(testRegistry(t)))
	if cfg == nil {
		t.Fatal("New() returned nil")
	}
	if *code != -1 {
		t.Errorf("exit called with %d", *code)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", out.String())
	}
}

func TestNew_UnknownName(t *testing.T) {
	out, code := stubProcess(t)

	cfg := New("GateMate7550", WithRegistry(testRegistry(t)))
	if cfg != nil {
		t.Error("New() should not return a config after a fatal error")
	}
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("stderr has %d lines, want 2: %q", len(lines), out.String())
	}
	if lines[0] != `Cannot load configuration: "gatemate7550"` {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "gatemate7550") {
		t.Errorf("second line %q should carry the resolution error", lines[1])
	}
}

func TestNew_QuotesRawName(t *testing.T) {
	out, code := stubProcess(t)

	New(`Odd"Name\x`, WithRegistry(testRegistry(t)))
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
	first, _, _ := strings.Cut(out.String(), "\n")
	if first != `Cannot load configuration: "odd"name\x"` {
		t.Errorf("first line = %q", first)
	}
}

func TestNew_WithStderrAndExitFunc(t *testing.T) {
	global, globalCode := stubProcess(t)

	var out bytes.Buffer
	code := -1
	cfg := New("nosuch",
		WithRegistry(testRegistry(t)),
		WithStderr(&out),
		WithExitFunc(func(c int) { code = c }),
	)
	if cfg != nil {
		t.Error("New() should return nil when the exit func returns")
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(out.String(), `Cannot load configuration: "nosuch"`) {
		t.Errorf("stderr = %q", out.String())
	}
	if global.Len() != 0 || *globalCode != -1 {
		t.Errorf("package hooks used: %q, %d", global.String(), *globalCode)
	}
}

func TestNew_UnknownName_ExitsProcess(t *testing.T) {
	if os.Getenv("GMM7550_TEST_FATAL") == "1" {
		New("GateMate7550")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestNew_UnknownName_ExitsProcess$")
	cmd.Env = append(os.Environ(), "GMM7550_TEST_FATAL=1")
	var errOut bytes.Buffer
	cmd.Stderr = &errOut

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("process should exit with an error, got %v", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(errOut.String(), `Cannot load configuration: "gatemate7550"`) {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestConfig_Get(t *testing.T) {
	cfg, err := Load("bench", WithRegistry(testRegistry(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		key  string
		want any
	}{
		{"description", "bench board"},
		{"cfg_mode", "SPI_PASSIVE_2"},
		{"spi.bus", 1},
		{"reset_high", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := cfg.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %v (%T), want %v", tt.key, got, got, tt.want)
			}
			if !cfg.Has(tt.key) {
				t.Errorf("Has(%q) = false", tt.key)
			}
		})
	}
}

func TestConfig_Get_Absent(t *testing.T) {
	cfg, err := Load("bench", WithRegistry(testRegistry(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, key := range []string{"", "spi_speed_hz", "jtag.speed_hz", "__class__", "spi.bus.extra"} {
		if got := cfg.Get(key); got != nil {
			t.Errorf("Get(%q) = %v, want nil", key, got)
		}
		if cfg.Has(key) {
			t.Errorf("Has(%q) = true, want false", key)
		}
	}
}

func TestConfig_TypedAccessors(t *testing.T) {
	cfg, err := Load("bench", WithRegistry(testRegistry(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Int("spi.bus"); got != 1 {
		t.Errorf("Int(spi.bus) = %d, want 1", got)
	}
	if got := cfg.String("description"); got != "bench board" {
		t.Errorf("String(description) = %q", got)
	}
	if !cfg.Bool("reset_high") {
		t.Error("Bool(reset_high) should be true")
	}
	if got := cfg.Int("missing"); got != 0 {
		t.Errorf("Int(missing) = %d, want 0", got)
	}
	if got := cfg.StringMap("missing"); got != nil {
		t.Errorf("StringMap(missing) = %v, want nil", got)
	}
	if got := cfg.Description(); got != "bench board" {
		t.Errorf("Description() = %q", got)
	}
}

func TestConfig_CfgMode(t *testing.T) {
	cfg, err := Load("bench", WithRegistry(testRegistry(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	mode, err := cfg.CfgMode()
	if err != nil {
		t.Fatalf("CfgMode() error = %v", err)
	}
	if mode != domain.CfgModeSPIPassive2 || mode.Value() != 6 {
		t.Errorf("CfgMode() = %v, want SPI_PASSIVE_2", mode)
	}
}

func TestConfig_CfgMode_Numeric(t *testing.T) {
	def, _ := NewDefinition(map[string]any{"cfg_mode": 12})
	r := NewRegistry()
	r.RegisterDefinition("bench", def)

	cfg, err := Load("bench", WithRegistry(r))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	mode, err := cfg.CfgMode()
	if err != nil {
		t.Fatalf("CfgMode() error = %v", err)
	}
	if mode != domain.CfgModeJTAG {
		t.Errorf("CfgMode() = %v, want JTAG", mode)
	}
}

func TestConfig_CfgMode_Unset(t *testing.T) {
	def, _ := NewDefinition(map[string]any{"description": "no mode"})
	r := NewRegistry()
	r.RegisterDefinition("nomode", def)

	cfg, err := Load("nomode", WithRegistry(r))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := cfg.CfgMode(); !errors.Is(err, domain.ErrCfgModeUnset) {
		t.Errorf("CfgMode() error = %v, want ErrCfgModeUnset", err)
	}
}

func TestConfig_Pin(t *testing.T) {
	cfg, err := Load("bench", WithRegistry(testRegistry(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pin, err := cfg.Pin("cfg_done")
	if err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	if pin != "GPIO25" {
		t.Errorf("Pin(cfg_done) = %q, want GPIO25", pin)
	}

	if _, err := cfg.Pin("pwr_en"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("Pin(pwr_en) error = %v, want ErrKeyNotFound", err)
	}

	// Keys are matched exactly, as NameOrValue does.
	_, err = cfg.Pin("CFG_DONE")
	if !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("Pin(CFG_DONE) error = %v, want ErrKeyNotFound", err)
	}
	if !strings.Contains(err.Error(), "CFG_DONE") {
		t.Errorf("error %q should carry the signal as given", err)
	}
}

func TestConfig_Pin_UpperCaseTable(t *testing.T) {
	dir := t.TempDir()
	data := "cfg_mode: SPI_PASSIVE_0\npins:\n  CFG_DONE: GPIO25\n  RST_N: GPIO23\n"
	if err := os.WriteFile(filepath.Join(dir, "lab.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r := NewRegistry()
	if _, err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	cfg, err := Load("lab", WithRegistry(r))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := NameOrValue(cfg.StringMap("pins"), "CFG_DONE")
	pin, err := cfg.Pin("CFG_DONE")
	if err != nil {
		t.Fatalf("Pin(CFG_DONE) error = %v", err)
	}
	if pin != "GPIO25" || pin != want {
		t.Errorf("Pin(CFG_DONE) = %q, NameOrValue = %q, want GPIO25", pin, want)
	}
}

func TestConfig_Pin_NoTable(t *testing.T) {
	def, _ := NewDefinition(map[string]any{"cfg_mode": "JTAG"})
	r := NewRegistry()
	r.RegisterDefinition("bare", def)

	cfg, err := Load("bare", WithRegistry(r))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pin, err := cfg.Pin("CFG_DONE")
	if err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	if pin != "CFG_DONE" {
		t.Errorf("Pin(CFG_DONE) = %q, want the name unchanged", pin)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GMM7550_DESCRIPTION", "overridden")
	t.Setenv("GMM7550_PINS__CFG_DONE", "GPIO5")

	r := testRegistry(t)

	cfg, err := Load("bench", WithRegistry(r), WithEnvOverrides(""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Description(); got != "overridden" {
		t.Errorf("Description() = %q, want %q", got, "overridden")
	}
	if pin, _ := cfg.Pin("cfg_done"); pin != "GPIO5" {
		t.Errorf("Pin(cfg_done) = %q, want GPIO5", pin)
	}

	plain, err := Load("bench", WithRegistry(r))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := plain.Description(); got != "bench board" {
		t.Errorf("overrides leaked into shared definition: %q", got)
	}
}

func TestConfig_Fingerprint(t *testing.T) {
	r := testRegistry(t)

	a, _ := Load("bench", WithRegistry(r))
	b, _ := Load("BENCH", WithRegistry(r))
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("same definition should have the same fingerprint")
	}

	t.Setenv("GMM7550_DESCRIPTION", "changed")
	c, _ := Load("bench", WithRegistry(r), WithEnvOverrides(""))
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different attributes should change the fingerprint")
	}
}

func TestLoad_Concurrent(t *testing.T) {
	r := testRegistry(t)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := Load("bench", WithRegistry(r))
			if err != nil {
				errs <- err
				return
			}
			if cfg.Get("spi.bus") != 1 {
				errs <- errors.New("unexpected spi.bus")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
