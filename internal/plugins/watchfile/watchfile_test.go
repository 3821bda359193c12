package watchfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ensemble-cli/ensemble/internal/itc"
	"github.com/ensemble-cli/ensemble/internal/logging"
	"github.com/ensemble-cli/ensemble/internal/plugin"
)

func TestPublishesFilesystemEvents(t *testing.T) {
	dir := t.TempDir()
	shared := &plugin.SharedContext{Hub: itc.NewHub(), Log: logging.Nop()}

	p := NewFactory(dir).Make(shared)
	task, err := p.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if task == nil {
		t.Fatal("watchfile should yield a background task")
	}

	sub := shared.Hub.Observe(Key(dir))
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	taskErr := make(chan error, 1)
	go func() { taskErr <- task(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "touched"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	nextCtx, nextCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer nextCancel()
	u, err := sub.Next(nextCtx)
	if err != nil {
		t.Fatalf("no event published: %v", err)
	}
	ev, ok := u.Value.(Event)
	if !ok {
		t.Fatalf("published value is %T, want Event", u.Value)
	}
	if filepath.Base(ev.Path) != "touched" {
		t.Errorf("event for %q, want the touched file", ev.Path)
	}

	cancel()
	<-taskErr

	if err := p.Exit(context.Background()); err != nil {
		t.Errorf("Exit failed: %v", err)
	}
}

func TestEnterFailsOnMissingPath(t *testing.T) {
	shared := &plugin.SharedContext{Hub: itc.NewHub(), Log: logging.Nop()}
	p := NewFactory(filepath.Join(t.TempDir(), "does-not-exist")).Make(shared)

	if _, err := p.Enter(context.Background()); err == nil {
		t.Error("expected setup fault for a missing watch path")
	}
}
