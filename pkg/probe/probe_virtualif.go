package probe

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
)

// virtualInterfaceProbe validates that a virtual IP is actually live on this
// host: the interface is up and running, reverse path filtering is off, and
// every requested address is bound. Built per request by the aggregator,
// never from the configuration file.
type virtualInterfaceProbe struct {
	ifname string
	ips    []string
	root   string
}

func NewVirtualInterface(ifname string, ips []string) Probe {
	return &virtualInterfaceProbe{
		ifname: ifname,
		ips:    ips,
		root:   sysctlRoot,
	}
}

func (p *virtualInterfaceProbe) Exec(ctx context.Context) (string, error) {
	return runBounded(ctx, func() (string, error) {
		link, err := interfaceLink(p.ifname)
		if err != nil {
			return "", err
		}

		if readSysctl(p.root, "net.ipv4.conf."+p.ifname+".rp_filter") != "0" {
			return "", errors.Errorf("rp_filter not disabled on %s", p.ifname)
		}

		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			return "", errors.Wrapf(err, "failed to list addresses of interface %s", p.ifname)
		}

		for _, wanted := range p.ips {
			ip := net.ParseIP(wanted)
			if ip == nil {
				return "", errors.Errorf("invalid ip %q", wanted)
			}

			bound := false
			for i := range addrs {
				if addrs[i].IP.Equal(ip) {
					bound = true
					break
				}
			}

			if !bound {
				return "", errors.Errorf("ip %s not bound to %s", wanted, p.ifname)
			}
		}

		return "", nil
	})
}
