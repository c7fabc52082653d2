package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/theFisher86/coolChat-sub000/internal/schema"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing, capturing
// all output in the returned buffer.
func SetupAppTest(t *testing.T, config *Config, modules ...schema.Module) (*App, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	config.LogLevel = "debug"
	testApp := NewApp(buf, config, modules...)

	t.Cleanup(func() {
		if os.Getenv("COOLCHAT_TEST_LOGS") == "true" {
			t.Logf("--- Full output for %s ---\n%s", t.Name(), buf.String())
		}
	})

	return testApp, buf
}
