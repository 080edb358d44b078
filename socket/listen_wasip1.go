//go:build wasip1

package socket

import (
	"net"
	"os"
)

func fileListener(fd uint32, addr string) (net.Listener, error) {
	f := os.NewFile(uintptr(fd), addr)
	defer f.Close()
	ln, err := net.FileListener(f)
	if err != nil {
		return nil, &Error{Op: "listen", Addr: addr, Kind: Unknown, Err: err}
	}
	return ln, nil
}
