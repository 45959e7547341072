// A minimal DHCPv4 client: DISCOVER -> OFFER -> REQUEST -> ACK, enough
// to lease an address, netmask, gateway, and DNS servers from the NAT
// gateway QEMU's user-mode networking provides (spec §4.10's "requests a
// DHCP lease"). No DHCP client library exists anywhere in the retrieved
// example corpus, so this is a direct, from-scratch implementation of
// RFC 2131's message format rather than an ecosystem dependency.
package main

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"net"
	"time"
)

const (
	dhcpServerPort = 67
	dhcpClientPort = 68

	opBootRequest = 1
	opBootReply   = 2
	htypeEthernet = 1

	magicCookie = 0x63825363

	optPad           = 0
	optSubnetMask    = 1
	optRouter        = 3
	optDNS           = 6
	optRequestedIP   = 50
	optLeaseTime     = 51
	optMsgType       = 53
	optServerID      = 54
	optParamList     = 55
	optEnd           = 255
	dhcpDiscover     = 1
	dhcpOffer        = 2
	dhcpRequestMsg   = 3
	dhcpAck          = 5
)

// lease is the subset of a DHCP ACK's options the agent needs.
type lease struct {
	Address net.IP
	Netmask net.IPMask
	Gateway net.IP
	DNS     []net.IP
}

// dhcpRequest performs the full DISCOVER/OFFER/REQUEST/ACK exchange over
// a UDP socket bound to 0.0.0.0:68, broadcasting to 255.255.255.255:67.
func dhcpRequest(ifaceName string, mac net.HardwareAddr, timeout time.Duration) (lease, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: dhcpClientPort})
	if err != nil {
		return lease{}, fmt.Errorf("binding dhcp client socket: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(timeout))

	xid := rand.Uint32()
	broadcast := &net.UDPAddr{IP: net.IPv4bcast, Port: dhcpServerPort}

	discover := buildMessage(xid, mac, dhcpDiscover, nil, nil)
	if _, err := conn.WriteToUDP(discover, broadcast); err != nil {
		return lease{}, fmt.Errorf("sending discover: %w", err)
	}

	offer, offerer, err := readMessage(conn, xid, dhcpOffer)
	if err != nil {
		return lease{}, fmt.Errorf("waiting for offer: %w", err)
	}

	request := buildMessage(xid, mac, dhcpRequestMsg, offer.Address, offerer)
	if _, err := conn.WriteToUDP(request, broadcast); err != nil {
		return lease{}, fmt.Errorf("sending request: %w", err)
	}

	ack, _, err := readMessage(conn, xid, dhcpAck)
	if err != nil {
		return lease{}, fmt.Errorf("waiting for ack: %w", err)
	}
	return ack, nil
}

// buildMessage encodes a BOOTP/DHCP message with the fixed 236-byte
// header, the magic cookie, and the options this client needs: message
// type, (optionally) requested IP + server identifier for REQUEST, and a
// parameter request list asking for subnet mask/router/DNS.
func buildMessage(xid uint32, mac net.HardwareAddr, msgType byte, requestedIP net.IP, serverID net.IP) []byte {
	buf := make([]byte, 240)
	buf[0] = opBootRequest
	buf[1] = htypeEthernet
	buf[2] = byte(len(mac))
	binary.BigEndian.PutUint32(buf[4:8], xid)
	binary.BigEndian.PutUint16(buf[10:12], 0x8000) // broadcast flag: we have no address yet
	copy(buf[28:28+len(mac)], mac)
	binary.BigEndian.PutUint32(buf[236:240], magicCookie)

	opts := []byte{optMsgType, 1, msgType}
	if requestedIP != nil {
		ip4 := requestedIP.To4()
		opts = append(opts, optRequestedIP, 4)
		opts = append(opts, ip4...)
	}
	if serverID != nil {
		ip4 := serverID.To4()
		opts = append(opts, optServerID, 4)
		opts = append(opts, ip4...)
	}
	opts = append(opts, optParamList, 3, optSubnetMask, optRouter, optDNS)
	opts = append(opts, optEnd)

	return append(buf, opts...)
}

// readMessage reads DHCP replies until one matches xid and wantType or
// the socket deadline (set by the caller) expires.
func readMessage(conn *net.UDPConn, xid uint32, wantType byte) (lease, net.IP, error) {
	buf := make([]byte, 1500)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return lease{}, nil, err
		}
		if n < 240 {
			continue
		}
		msg := buf[:n]
		if msg[0] != opBootReply {
			continue
		}
		if binary.BigEndian.Uint32(msg[4:8]) != xid {
			continue
		}
		l, msgType := parseOptions(msg)
		l.Address = net.IP(msg[16:20])
		if msgType != wantType {
			continue
		}
		return l, addr.IP, nil
	}
}

// parseOptions walks the TLV options area starting at byte 240.
func parseOptions(msg []byte) (lease, byte) {
	var l lease
	var msgType byte
	i := 240
	for i < len(msg) {
		code := msg[i]
		if code == optEnd || code == optPad {
			i++
			continue
		}
		if i+1 >= len(msg) {
			break
		}
		length := int(msg[i+1])
		start := i + 2
		end := start + length
		if end > len(msg) {
			break
		}
		data := msg[start:end]
		switch code {
		case optMsgType:
			if length == 1 {
				msgType = data[0]
			}
		case optSubnetMask:
			if length == 4 {
				l.Netmask = net.IPMask(data)
			}
		case optRouter:
			if length >= 4 {
				l.Gateway = net.IP(data[0:4])
			}
		case optDNS:
			for off := 0; off+4 <= length; off += 4 {
				l.DNS = append(l.DNS, net.IP(data[off:off+4]))
			}
		}
		i = end
	}
	return l, msgType
}
