package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeScript создаёт исполняемый shell-скрипт во временной директории.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "run.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestRunner_Success(t *testing.T) {
	r := &Runner{Command: []string{writeScript(t, "echo done")}}

	res := r.Run(context.Background())

	if res.Outcome != OutcomeSucceeded {
		t.Fatalf("expected succeeded, got %s (%v)", res.Outcome, res.Err())
	}
	if res.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", res.ExitCode)
	}
	if res.Stdout != "done\n" {
		t.Errorf("expected stdout %q, got %q", "done\n", res.Stdout)
	}
	if res.Err() != nil {
		t.Errorf("expected nil error, got %v", res.Err())
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	r := &Runner{Command: []string{writeScript(t, "echo partial\necho 'boom' >&2\nexit 3")}}

	res := r.Run(context.Background())

	if res.Outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", res.Outcome)
	}
	if res.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", res.ExitCode)
	}
	if res.Stderr != "boom\n" {
		t.Errorf("expected stderr %q, got %q", "boom\n", res.Stderr)
	}
	if res.Stdout != "partial\n" {
		t.Errorf("stdout should still be captured, got %q", res.Stdout)
	}
	if !errors.Is(res.Err(), ErrCommandFailed) {
		t.Errorf("expected ErrCommandFailed, got %v", res.Err())
	}
}

func TestRunner_NotFound(t *testing.T) {
	r := &Runner{Command: []string{filepath.Join(t.TempDir(), "missing")}}

	res := r.Run(context.Background())

	if res.Outcome != OutcomeSpawnError {
		t.Fatalf("expected spawn_error, got %s", res.Outcome)
	}
	if res.SpawnErr == nil {
		t.Error("SpawnErr should be set")
	}
	if !errors.Is(res.Err(), ErrSpawn) {
		t.Errorf("expected ErrSpawn, got %v", res.Err())
	}
}

func TestRunner_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, []byte("echo hi\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	res := (&Runner{Command: []string{path}}).Run(context.Background())

	if res.Outcome != OutcomeSpawnError {
		t.Errorf("expected spawn_error, got %s", res.Outcome)
	}
}

func TestRunner_EmptyCommand(t *testing.T) {
	res := (&Runner{}).Run(context.Background())

	if res.Outcome != OutcomeSpawnError {
		t.Errorf("expected spawn_error, got %s", res.Outcome)
	}
}

func TestRunner_ArgumentsPassed(t *testing.T) {
	r := &Runner{Command: []string{writeScript(t, `echo "$#:$1"`), "--flag"}}

	res := r.Run(context.Background())

	if res.Stdout != "1:--flag\n" {
		t.Errorf("expected configured args only, got %q", res.Stdout)
	}
}

func TestRunner_CancelledContextStillRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := (&Runner{Command: []string{writeScript(t, "sleep 0.1\necho finished")}}).Run(ctx)

	if res.Outcome != OutcomeSucceeded {
		t.Fatalf("command should run to completion, got %s (%v)", res.Outcome, res.Err())
	}
	if res.Stdout != "finished\n" {
		t.Errorf("unexpected stdout %q", res.Stdout)
	}
}

func TestRunner_Timeout(t *testing.T) {
	r := &Runner{
		Command: []string{writeScript(t, "exec sleep 5")},
		Timeout: 100 * time.Millisecond,
	}

	start := time.Now()
	res := r.Run(context.Background())

	if res.Outcome != OutcomeSpawnError {
		t.Fatalf("expected spawn_error on timeout, got %s", res.Outcome)
	}
	if !errors.Is(res.SpawnErr, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", res.SpawnErr)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("timeout was not enforced")
	}
}

func TestRunner_MaxOutputBytes(t *testing.T) {
	r := &Runner{
		Command:        []string{writeScript(t, "printf 'abcdefghij'")},
		MaxOutputBytes: 4,
	}

	res := r.Run(context.Background())

	if res.Outcome != OutcomeSucceeded {
		t.Fatalf("expected succeeded, got %s", res.Outcome)
	}
	if res.Stdout != "abcd" {
		t.Errorf("expected truncated stdout, got %q", res.Stdout)
	}
	if !res.Truncated {
		t.Error("Truncated should be set")
	}
}

func TestRunner_String(t *testing.T) {
	r := &Runner{Command: []string{"python3", "test_cnx.py"}}
	if r.String() != "python3 test_cnx.py" {
		t.Errorf("unexpected string %q", r.String())
	}
}

func TestLimitedBuffer(t *testing.T) {
	b := &limitedBuffer{limit: 5}

	n, err := b.Write([]byte("abc"))
	if n != 3 || err != nil {
		t.Fatalf("unexpected write result: %d, %v", n, err)
	}
	n, _ = b.Write([]byte("defg"))
	if n != 4 {
		t.Errorf("write must report full length, got %d", n)
	}
	b.Write([]byte("h"))

	if b.String() != "abcde" {
		t.Errorf("expected abcde, got %q", b.String())
	}
	if !b.truncated {
		t.Error("truncated should be set")
	}

	unlimited := &limitedBuffer{}
	unlimited.Write([]byte(strings.Repeat("x", 1000)))
	if len(unlimited.String()) != 1000 || unlimited.truncated {
		t.Error("zero limit should capture everything")
	}
}
