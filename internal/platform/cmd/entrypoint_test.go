package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
	"time"
)

type testConfig struct {
	Addr    string        `env:"ADDR" envDefault:"localhost:8095"`
	Timeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"2s"`
}

func TestParseConfigFromArgsFlagsOverrideEnv(t *testing.T) {
	t.Setenv("FEEDSTORE_ADDR", "env:9000")
	t.Setenv("FEEDSTORE_DIAL_TIMEOUT", "3s")

	cfg := testConfig{}
	fs := flag.NewFlagSet("feedctl", flag.ContinueOnError)
	addr := fs.String("addr", "", "address")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-addr", "flag:9001"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.Addr != "env:9000" {
		t.Fatalf("env addr = %q, want env:9000", cfg.Addr)
	}
	if *addr != "flag:9001" {
		t.Fatalf("flag addr = %q, want flag:9001", *addr)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v, want 3s", cfg.Timeout)
	}
}

func TestParseConfigUsesDefaults(t *testing.T) {
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "localhost:8095" || cfg.Timeout != 2*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceFeedStore, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("FEEDSTORE_OTEL_ENDPOINT", "")

	want := errors.New("run failed")
	var ran bool
	err := RunWithTelemetryAndOptions(context.Background(), ServiceFeedCtl, RunOptions{ShutdownTimeout: time.Second}, func(context.Context) error {
		ran = true
		return want
	})
	if !ran {
		t.Fatal("expected run to be called")
	}
	if !errors.Is(err, want) {
		t.Fatalf("run error = %v, want %v", err, want)
	}
}
