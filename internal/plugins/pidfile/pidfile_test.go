package pidfile

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ensemble-cli/ensemble/internal/itc"
	"github.com/ensemble-cli/ensemble/internal/logging"
	"github.com/ensemble-cli/ensemble/internal/plugin"
)

func TestWritesAndRemovesPidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")
	shared := &plugin.SharedContext{Hub: itc.NewHub(), Log: logging.Nop()}

	p := NewFactory(path).Make(shared)

	task, err := p.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if task != nil {
		t.Error("pidfile plugin should yield no background task")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("pid file missing after Enter: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("pid file contains %q, want own pid", got)
	}

	if err := p.Exit(context.Background()); err != nil {
		t.Fatalf("Exit failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("pid file should be removed after Exit")
	}
}

func TestEnterFailsOnUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "test.pid")
	shared := &plugin.SharedContext{Hub: itc.NewHub(), Log: logging.Nop()}

	p := NewFactory(path).Make(shared)
	if _, err := p.Enter(context.Background()); err == nil {
		t.Error("expected setup fault for unwritable path")
	}
}
