package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"repocast/internal/gateway"
)

// minDiskHeadroom is the free-space floor below which the disk check fails.
// A generated episode rarely exceeds a couple hundred megabytes.
const minDiskHeadroom = 500 * 1024 * 1024

// statfsFreeBytes reports the free bytes on the filesystem holding path.
// Swappable for tests.
var statfsFreeBytes = func(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// CheckGateway verifies that the generation gateway answers HTTP requests.
// It uses a 5-second timeout and a single attempt.
func CheckGateway(ctx context.Context, gw gateway.Service, baseURL string) Result {
	const name = "Gateway"

	if strings.TrimSpace(baseURL) == "" {
		return Result{Name: name, Detail: "missing base url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := gw.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeGatewayError(baseURL, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", baseURL)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckBinary verifies that a required external command resolves on PATH.
func CheckBinary(name, command, description string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		detail := fmt.Sprintf("binary %q not found", command)
		if description != "" {
			detail = fmt.Sprintf("%s (%s)", detail, description)
		}
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckDiskSpace verifies that the filesystem holding path has headroom for
// at least one more episode download.
func CheckDiskSpace(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	free, err := statfsFreeBytes(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if free < minDiskHeadroom {
		return Result{Name: name, Detail: fmt.Sprintf("%s free (need at least %s)", humanize.Bytes(free), humanize.Bytes(minDiskHeadroom))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s free", humanize.Bytes(free))}
}

// summarizeGatewayError produces a human-readable summary for gateway
// reachability failures.
func summarizeGatewayError(baseURL string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s (connection timed out)", baseURL)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("%s (connection timed out)", baseURL)
	}
	return fmt.Sprintf("%s (%v)", baseURL, err)
}
