package internal

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/sikabut/internal/api"
	"github.com/starford/sikabut/internal/relay"
	"github.com/starford/sikabut/internal/testutil"
)

func lookupConfig(upstreamURL string) *Config {
	cfg := NewDefaultConfig()
	cfg.Upstream.URL = upstreamURL
	cfg.Portal.RelayURL = ""
	return cfg
}

func TestRunLookup_OneShotInProcess(t *testing.T) {
	up := testutil.JSONUpstream(t, http.StatusOK,
		`[{"nomor_berkas":"00123","nama_pemohon":"Siti","status_berkas":"Selesai","kekurangan_berkas":""}]`)

	var out bytes.Buffer
	err := RunLookup(context.Background(),
		WithConfig(lookupConfig(up.URL)),
		WithFileNumber(" 00123 "),
		WithoutHistory(),
		WithOutput(&out))
	if err != nil {
		t.Fatalf("RunLookup: %v", err)
	}
	for _, want := range []string{"Siti", "Selesai", "Berkas sudah lengkap"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if got := up.Requests()[0].URL.Query().Get("nomor_berkas"); got != "00123" {
		t.Errorf("upstream saw %q", got)
	}
}

func TestRunLookup_OneShotViaRelay(t *testing.T) {
	up := testutil.JSONUpstream(t, http.StatusOK, `[]`)
	rc, err := relay.New(up.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(api.NewRootRouter(rc))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	err = RunLookup(context.Background(),
		WithConfig(NewDefaultConfig()),
		WithRelayURL(srv.URL+"/api/proxy"),
		WithFileNumber("404"),
		WithoutHistory(),
		WithOutput(&out))
	if err != nil {
		t.Fatalf("RunLookup: %v", err)
	}
	if !strings.Contains(out.String(), `"404" tidak ditemukan`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestRunLookup_OneShotUpstreamFailure(t *testing.T) {
	up := testutil.JSONUpstream(t, http.StatusInternalServerError, `boom`)

	var out bytes.Buffer
	err := RunLookup(context.Background(),
		WithConfig(lookupConfig(up.URL)),
		WithFileNumber("1"),
		WithoutHistory(),
		WithOutput(&out))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out.String(), "Gagal mengambil data") || strings.Contains(out.String(), "boom") {
		t.Errorf("output = %s", out.String())
	}
}

func TestRunLookup_RecordsHistory(t *testing.T) {
	up := testutil.JSONUpstream(t, http.StatusOK, `[]`)
	cfg := lookupConfig(up.URL)
	cfg.Portal.History.Path = filepath.Join(t.TempDir(), "history.db")

	for _, n := range []string{"1", "2"} {
		if err := RunLookup(context.Background(), WithConfig(cfg), WithFileNumber(n), WithOutput(&bytes.Buffer{})); err != nil {
			t.Fatalf("RunLookup(%s): %v", n, err)
		}
	}
	if _, err := os.Stat(cfg.Portal.History.Path); err != nil {
		t.Errorf("history database not created: %v", err)
	}
}

func TestRunLookup_NoRelayNoUpstream(t *testing.T) {
	err := RunLookup(context.Background(), WithConfig(lookupConfig("")), WithFileNumber("1"), WithoutHistory())
	if err == nil || !strings.Contains(err.Error(), "upstream.url is required") {
		t.Errorf("err = %v", err)
	}
}

func TestRun_RequiresConfigAndUpstream(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("Run without config should fail")
	}
	if err := Run(context.Background(), WithConfig(NewDefaultConfig())); err == nil {
		t.Error("Run without upstream should fail")
	}
	if err := RunMCP(context.Background(), WithConfig(NewDefaultConfig())); err == nil {
		t.Error("RunMCP without upstream should fail")
	}
}

func TestReloadFunc(t *testing.T) {
	rc, err := relay.New("https://old.example.com/exec", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	level := new(slog.LevelVar)
	path := filepath.Join(t.TempDir(), "config.yaml")
	apply := reloadFunc(path, rc, level)

	write := func(s string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("app:\n  log_level: debug\n  http:\n    port: 8080\nupstream:\n  url: https://new.example.com/exec\n  timeout: 7s\n")
	if err := apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if rc.Endpoint() != "https://new.example.com/exec" || rc.Timeout() != 7*time.Second {
		t.Errorf("relay = %s %v", rc.Endpoint(), rc.Timeout())
	}
	if level.Level() != slog.LevelDebug {
		t.Errorf("level = %v", level.Level())
	}

	write("upstream:\n  url: ftp://bad\n")
	if err := apply(); err == nil {
		t.Error("invalid config applied")
	}
	if rc.Endpoint() != "https://new.example.com/exec" {
		t.Errorf("endpoint changed on invalid config: %s", rc.Endpoint())
	}
}
