package command

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/gmm7550-go/internal/core/boardcfg"
)

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a polling
// reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runApp runs the full application with captured output. args excludes
// the program name.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)
	return runAppContext(context.Background(), &syncBuffer{}, args...)
}

// runAppStderr is runApp that also returns what the application wrote to
// its error stream.
func runAppStderr(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	clearEnv(t)

	out, errOut := &syncBuffer{}, &syncBuffer{}
	app := App()
	app.Writer = out
	app.ErrWriter = errOut

	err = app.Run(append([]string{"gmm7550"}, args...))
	return out.String(), errOut.String(), err
}

// stubExit records the status passed to exitFunc instead of exiting.
// The returned value is -1 until exitFunc is called.
func stubExit(t *testing.T) *int {
	t.Helper()
	code := -1
	old := exitFunc
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() { exitFunc = old })
	return &code
}

// registered reports whether reg resolves name.
func registered(reg *boardcfg.Registry, name string) bool {
	return slices.Contains(reg.Names(), name)
}

// runAppContext is runApp for callers that need cancellation or a shared
// output buffer. Callers clear the environment themselves.
func runAppContext(ctx context.Context, out *syncBuffer, args ...string) (string, error) {
	app := App()
	app.Writer = out
	app.ErrWriter = &syncBuffer{}

	err := app.RunContext(ctx, append([]string{"gmm7550"}, args...))
	return out.String(), err
}

// flagEnvVars are the variables that change global flag defaults.
var flagEnvVars = []string{"GMM7550_CONFIG", "GMM7550_CONFIG_DIR", "GMM7550_LOG_LEVEL", "GMM7550_LOG_FORMAT"}

// clearEnv unsets flagEnvVars for the duration of the test and points
// GMM7550_PREFS at a file that does not exist.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range flagEnvVars {
		if _, ok := os.LookupEnv(key); ok {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	t.Setenv("GMM7550_PREFS", filepath.Join(t.TempDir(), "cli.yaml"))
}

// testContext creates a CLI context with the global flags parsed from args.
func testContext(args ...string) *cli.Context {
	app := &cli.App{
		Name:     "test",
		Flags:    globalFlags(),
		Metadata: map[string]any{},
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range app.Flags {
		f.Apply(set)
	}
	set.Parse(args)

	return cli.NewContext(app, set, nil)
}

// writeDefinition writes a board definition file into dir.
func writeDefinition(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}
