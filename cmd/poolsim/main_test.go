package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "testdata/deferred.toml", "--frames", "2")
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}
	for _, want := range []string{
		`workload "deferred": 2 frames`,
		"acquires      12 images, 4 buffers",
		"created       7 (9 reused",
		"barriers      18",
		"max ranges    3 per image",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCommandMissingFile(t *testing.T) {
	if _, err := execute(t, "run", "testdata/missing.toml"); err == nil {
		t.Error("run with a missing workload succeeded")
	}
}

func TestCutCommand(t *testing.T) {
	out, err := execute(t, "cut", "0:4,0:4", "1:1,1:1")
	if err != nil {
		t.Fatalf("cut error = %v", err)
	}
	want := `overlaps: true
cut:
  layers[0,1) mips[0,4)
  layers[2,4) mips[0,4)
  layers[1,2) mips[0,1)
  layers[1,2) mips[2,4)
split:
`
	if !strings.HasPrefix(out, want) {
		t.Fatalf("cut output =\n%s\nwant prefix\n%s", out, want)
	}
	if n := strings.Count(out[len(want):], "layers["); n != 5 {
		t.Errorf("split printed %d ranges, want 5", n)
	}
}

func TestCutCommandBadRange(t *testing.T) {
	if _, err := execute(t, "cut", "0:4", "1:1,1:1"); err == nil {
		t.Error("cut accepted a malformed range")
	}
}
