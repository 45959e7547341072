package main

import (
	"net"
	"testing"
)

func TestParseOptionsExtractsLeaseFields(t *testing.T) {
	msg := make([]byte, 240)
	msg[0] = opBootReply
	msg[16], msg[17], msg[18], msg[19] = 192, 168, 1, 50 // yiaddr

	opts := []byte{
		optMsgType, 1, dhcpAck,
		optSubnetMask, 4, 255, 255, 255, 0,
		optRouter, 4, 192, 168, 1, 1,
		optDNS, 8, 8, 8, 8, 8, 1, 1, 1, 1,
		optEnd,
	}
	msg = append(msg, opts...)

	l, msgType := parseOptions(msg)
	l.Address = net.IP(msg[16:20])

	if msgType != dhcpAck {
		t.Fatalf("expected msgType %d, got %d", dhcpAck, msgType)
	}
	if !l.Address.Equal(net.IPv4(192, 168, 1, 50)) {
		t.Fatalf("unexpected address %v", l.Address)
	}
	if net.IP(l.Netmask).String() != "255.255.255.0" {
		t.Fatalf("unexpected netmask %v", l.Netmask)
	}
	if !l.Gateway.Equal(net.IPv4(192, 168, 1, 1)) {
		t.Fatalf("unexpected gateway %v", l.Gateway)
	}
	if len(l.DNS) != 2 || !l.DNS[0].Equal(net.IPv4(8, 8, 8, 8)) || !l.DNS[1].Equal(net.IPv4(1, 1, 1, 1)) {
		t.Fatalf("unexpected dns servers %v", l.DNS)
	}
}

func TestBuildMessageEncodesMagicCookieAndMsgType(t *testing.T) {
	mac := net.HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	msg := buildMessage(0x1234, mac, dhcpDiscover, nil, nil)

	if msg[0] != opBootRequest {
		t.Fatalf("expected op BOOTREQUEST, got %d", msg[0])
	}
	cookie := uint32(msg[236])<<24 | uint32(msg[237])<<16 | uint32(msg[238])<<8 | uint32(msg[239])
	if cookie != magicCookie {
		t.Fatalf("expected magic cookie %x, got %x", magicCookie, cookie)
	}
	l, msgType := parseOptions(msg)
	_ = l
	if msgType != dhcpDiscover {
		t.Fatalf("expected msgType %d, got %d", dhcpDiscover, msgType)
	}
}
