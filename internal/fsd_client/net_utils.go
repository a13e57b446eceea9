package fsd_client

import (
	"errors"
	"io"
	"net"
	"syscall"
)

func isNetClosedError(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	ok := errors.As(err, &opErr)
	return ok && opErr.Timeout()
}

func isRemoteClosedError(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrClosedPipe)
}

func describeNetError(err error) string {
	if isRemoteClosedError(err) {
		return "The remote host closed the connection"
	}
	return err.Error()
}

// localIp 本地地址, 用于INF应答
func localIp(conn net.Conn) string {
	if conn == nil {
		return ""
	}
	if addr, ok := conn.LocalAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	host, _, err := net.SplitHostPort(conn.LocalAddr().String())
	if err != nil {
		return conn.LocalAddr().String()
	}
	return host
}
