package ipc

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"syscall"

	"golang.org/x/sys/unix"
)

// SocketPath is initialized to $XDG_RUNTIME_DIR/mpdmmkeys.sock,
// or /tmp/mpdmmkeys-{uid}.sock when XDG_RUNTIME_DIR is unset.
var SocketPath = "/tmp/mpdmmkeys.sock"

func init() {
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		SocketPath = path.Join(runtime, "mpdmmkeys.sock")
	} else {
		SocketPath = fmt.Sprintf("/tmp/mpdmmkeys-%d.sock", unix.Getuid())
	}
}

// Dial establishes a connection to the IPC socket.
// Returns an error if the socket doesn't exist or connection fails.
func Dial() (net.Conn, error) {
	return net.Dial("unix", SocketPath)
}

// Listen creates a Unix domain socket listener at SocketPath.
// A socket file left behind by an instance that is no longer running is
// replaced. The socket file should be removed with DestroyConn when done.
func Listen() (net.Listener, error) {
	l, err := net.Listen("unix", SocketPath)
	if err == nil || !errors.Is(err, syscall.EADDRINUSE) {
		return l, err
	}
	if conn, dialErr := Dial(); dialErr == nil {
		conn.Close()
		return nil, err // another instance owns the socket
	}
	if rmErr := os.Remove(SocketPath); rmErr != nil {
		return nil, err
	}
	return net.Listen("unix", SocketPath)
}

// DestroyConn removes the Unix socket file from the filesystem.
func DestroyConn() error {
	return os.Remove(SocketPath)
}
