package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"repocast/internal/gateway"
)

type stubGateway struct {
	pingErr error
}

func (s *stubGateway) StartGeneration(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubGateway) WorkflowStatus(context.Context, string) (gateway.Status, error) {
	return gateway.Status{}, errors.New("not implemented")
}

func (s *stubGateway) Ping(context.Context) error { return s.pingErr }

func TestCheckGateway(t *testing.T) {
	result := CheckGateway(context.Background(), &stubGateway{}, "http://127.0.0.1:8000")
	if !result.Passed {
		t.Errorf("reachable gateway must pass: %+v", result)
	}

	result = CheckGateway(context.Background(), &stubGateway{pingErr: errors.New("connection refused")}, "http://127.0.0.1:8000")
	if result.Passed {
		t.Error("unreachable gateway must fail")
	}
	if !strings.Contains(result.Detail, "connection refused") {
		t.Errorf("detail should carry the cause: %q", result.Detail)
	}

	result = CheckGateway(context.Background(), &stubGateway{}, "  ")
	if result.Passed {
		t.Error("missing base url must fail")
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Library directory", dir)
	if !result.Passed {
		t.Errorf("writable temp dir must pass: %+v", result)
	}

	result = CheckDirectoryAccess("Library directory", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Error("missing directory must fail")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Errorf("detail = %q", result.Detail)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result = CheckDirectoryAccess("Library directory", file)
	if result.Passed {
		t.Error("regular file must fail the directory check")
	}
}

func TestCheckBinary(t *testing.T) {
	// sh is present on any system these tests run on.
	result := CheckBinary("Shell", "sh", "")
	if !result.Passed {
		t.Errorf("sh must resolve: %+v", result)
	}

	result = CheckBinary("Player", "definitely-not-a-binary-12345", "required for playback")
	if result.Passed {
		t.Error("unresolvable binary must fail")
	}
	if !strings.Contains(result.Detail, "required for playback") {
		t.Errorf("detail should carry the description: %q", result.Detail)
	}

	result = CheckBinary("Player", "  ", "")
	if result.Passed || result.Detail != "command not configured" {
		t.Errorf("blank command: %+v", result)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	orig := statfsFreeBytes
	defer func() { statfsFreeBytes = orig }()

	statfsFreeBytes = func(string) (uint64, error) { return 10 * 1024 * 1024 * 1024, nil }
	result := CheckDiskSpace("Library disk space", t.TempDir())
	if !result.Passed {
		t.Errorf("10GiB free must pass: %+v", result)
	}

	statfsFreeBytes = func(string) (uint64, error) { return 1024, nil }
	result = CheckDiskSpace("Library disk space", t.TempDir())
	if result.Passed {
		t.Error("1KiB free must fail")
	}

	statfsFreeBytes = func(string) (uint64, error) { return 0, errors.New("boom") }
	result = CheckDiskSpace("Library disk space", t.TempDir())
	if result.Passed {
		t.Error("statfs failure must fail the check")
	}
}

func TestAllPassed(t *testing.T) {
	if !AllPassed(nil) {
		t.Error("empty set passes")
	}
	if !AllPassed([]Result{{Passed: true}, {Passed: true}}) {
		t.Error("all-passing set passes")
	}
	if AllPassed([]Result{{Passed: true}, {Passed: false}}) {
		t.Error("one failure fails the set")
	}
}
