package rest

import (
	"net/http"
	"net/netip"
	"strings"
)

// ProxyList is the set of networks whose X-Forwarded-For entries are
// believed. An empty list trusts nobody.
type ProxyList []netip.Prefix

// ParseProxyList parses CIDR prefixes or bare addresses.
func ParseProxyList(entries []string) (ProxyList, error) {
	list := make(ProxyList, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			list = append(list, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, err
		}
		a = a.Unmap()
		list = append(list, netip.PrefixFrom(a, a.BitLen()))
	}
	return list, nil
}

func (l ProxyList) trusts(a netip.Addr) bool {
	for _, p := range l {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// clientIP returns the address the request is attributed to. The peer
// address is used unless the peer is a trusted proxy, in which case
// X-Forwarded-For is walked right to left past trusted hops.
func (s *Server) clientIP(r *http.Request) string {
	peer, ok := parsePeer(r.RemoteAddr)
	if !ok {
		return r.RemoteAddr
	}
	if !s.trustedProxies.trusts(peer) {
		return peer.String()
	}

	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}

	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		a, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		client = a.Unmap()
		if !s.trustedProxies.trusts(client) {
			break
		}
	}
	return client.String()
}

func parsePeer(remoteAddr string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remoteAddr); err == nil {
		return ap.Addr().Unmap(), true
	}
	if a, err := netip.ParseAddr(remoteAddr); err == nil {
		return a.Unmap(), true
	}
	return netip.Addr{}, false
}
