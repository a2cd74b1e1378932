package utils

import (
	"net"
)

// GetClientIP strips the port from a transport remote address.
func GetClientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
