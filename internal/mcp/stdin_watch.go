package mcp

import (
	"context"
	"os"
	"time"

	"surveycoder/internal/logging"
)

// WatchParent monitors for parent process death in a background goroutine
// and calls cancelFn when the parent PID changes, so a disconnected client
// does not leave a zombie server behind.
//
// This must NOT read from stdin: the MCP SDK's stdio transport owns stdin
// exclusively, and stealing bytes here would corrupt the JSON-RPC stream.
//
// The goroutine exits when ctx is canceled or parent death is detected.
func WatchParent(ctx context.Context, cancelFn context.CancelFunc) {
	log := logging.New("mcp")
	ppid := os.Getppid()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
				if os.Getppid() != ppid {
					log.Warn("parent process died, shutting down", "was_pid", ppid)
					cancelFn()
					return
				}
			}
		}
	}()
}
