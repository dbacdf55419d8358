package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
)

func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := `
[storage]
backend = "sqlite"
path = "` + filepath.ToSlash(filepath.Join(dir, "journal.db")) + `"

[logging]
level = "disabled"

[backup]
dir = "` + filepath.ToSlash(filepath.Join(dir, "backups")) + `"
` + extra
	path := filepath.Join(dir, "tradejournal.toml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewApp_InitializesStoreAndRegistry(t *testing.T) {
	a, err := NewApp(writeTestConfig(t, ""))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if a.Store == nil {
		t.Fatal("Store is nil")
	}
	if got := a.Store.Backend(); got != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", got)
	}
	if a.Registry == nil {
		t.Error("Registry is nil")
	}
	if a.StartupTime.IsZero() {
		t.Error("StartupTime is zero")
	}

	c, err := a.Journal(context.Background(), a.Config.Tenant.ID)
	if err != nil {
		t.Fatalf("Journal failed: %v", err)
	}
	if c.Portfolio().InitialCapital != 10000 {
		t.Errorf("InitialCapital = %v, want default 10000", c.Portfolio().InitialCapital)
	}
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "cassandra"
	if _, err := NewAppWithConfig(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestApp_OwnersDeduplicated(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = common.BackendMemory
	cfg.Auth.Users = []common.UserCredential{
		{ID: common.DefaultTenantID, Email: "a@example.com"},
		{ID: "bob", Email: "b@example.com"},
	}
	a, err := NewAppWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewAppWithConfig failed: %v", err)
	}
	defer a.Close()

	got := strings.Join(a.Owners(), ",")
	if got != common.DefaultTenantID+",bob" {
		t.Errorf("Owners = %s", got)
	}
}

func TestApp_StartBackupsWritesFiles(t *testing.T) {
	a, err := NewApp(writeTestConfig(t, `schedule = "@every 1s"`+"\n"))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if err := a.StartBackups(); err != nil {
		t.Fatalf("StartBackups failed: %v", err)
	}
	if a.scheduler == nil || a.scheduler.Entries() != 1 {
		t.Fatal("backup job not registered")
	}

	dir := filepath.Join(a.Config.Backup.Dir, a.Config.Tenant.ID)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		entries, _ := os.ReadDir(dir)
		if len(entries) > 0 {
			if !strings.HasPrefix(entries[0].Name(), "trading-journal-export-") {
				t.Errorf("unexpected backup name %s", entries[0].Name())
			}
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("no backup written")
}

func TestApp_StartBackupsDisabled(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = common.BackendMemory
	a, err := NewAppWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewAppWithConfig failed: %v", err)
	}
	defer a.Close()

	if err := a.StartBackups(); err != nil {
		t.Fatalf("StartBackups failed: %v", err)
	}
	if a.scheduler != nil {
		t.Error("scheduler started without a schedule")
	}
}

func TestApp_StartBackupsBadSchedule(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = common.BackendMemory
	cfg.Backup.Schedule = "not a schedule"
	cfg.Backup.Dir = t.TempDir()
	a, err := NewAppWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewAppWithConfig failed: %v", err)
	}
	defer a.Close()

	if err := a.StartBackups(); err == nil {
		t.Fatal("expected schedule error")
	}
}

func TestWarmCache_LoadsOwners(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = common.BackendMemory
	a, err := NewAppWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewAppWithConfig failed: %v", err)
	}
	defer a.Close()

	warmCache(context.Background(), a.Registry, []string{"alice", "bob"}, a.Logger)
	if got := len(a.Registry.Owners()); got != 2 {
		t.Errorf("loaded owners = %d, want 2", got)
	}
}
