package net

import (
	"net"

	"SketchBoard/internal/log"
)

// OutgoingIP picks the LAN address to put in a share link. It asks the kernel
// which source address a UDP packet to a public address would use (no packet
// is sent) and falls back to the first non-loopback IPv4 interface address.
func OutgoingIP() string {
	if conn, err := net.Dial("udp", "8.8.8.8:80"); err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String()
		}
	}
	return firstIPv4()
}

func firstIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.WithComponent("share").Warn("list interfaces", "err", err)
		return "127.0.0.1"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4().String()
			}
		}
	}
	log.WithComponent("share").Warn("no LAN address found, share link uses loopback")
	return "127.0.0.1"
}
