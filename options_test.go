package gpupool

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.logger != nil {
		t.Error("default options carry a logger")
	}
	if o.label != "pool" {
		t.Errorf("default label = %q, want pool", o.label)
	}
}

func TestWithLabelEmptyKeepsDefault(t *testing.T) {
	p := New(newTestFactory(t), WithLabel(""))
	defer p.Close()
	if p.opts.label != "pool" {
		t.Errorf("label = %q, want pool", p.opts.label)
	}
}

func TestWithLoggerOverridesPackageLogger(t *testing.T) {
	var own bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&own, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := New(newTestFactory(t), WithLogger(logger))
	if _, err := p.AcquireImage(rt256()); err != nil {
		t.Fatalf("AcquireImage() error = %v", err)
	}
	p.Close()

	out := own.String()
	if !strings.Contains(out, "image created") || !strings.Contains(out, "gpupool: closed") {
		t.Errorf("pool logger output missing entries:\n%s", out)
	}
}

func TestWithLoggerNilUsesPackageLogger(t *testing.T) {
	p := New(newTestFactory(t), WithLogger(nil))
	defer p.Close()
	if p.log() != Logger() {
		t.Error("nil WithLogger did not fall back to the package logger")
	}
}
