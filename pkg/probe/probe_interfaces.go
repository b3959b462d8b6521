package probe

import (
	"context"
	"net"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

type interfacesProbe struct {
	interfaces []string
}

func newInterfacesProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	if len(cfg.Interfaces) == 0 {
		return nil, errors.New("interfaces list is required")
	}

	return &interfacesProbe{interfaces: cfg.Interfaces}, nil
}

func (p *interfacesProbe) Exec(ctx context.Context) (string, error) {
	return runBounded(ctx, func() (string, error) {
		for _, name := range p.interfaces {
			link, err := interfaceLink(name)
			if err != nil {
				return "", err
			}

			addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
			if err != nil {
				return "", errors.Wrapf(err, "failed to list addresses of interface %s", name)
			}
			if len(addrs) == 0 {
				return "", errors.Errorf("interface %s has no addresses", name)
			}
		}

		return "", nil
	})
}

// interfaceLink resolves an interface by name and verifies it is UP and
// RUNNING. Shared with the virtual interface query check.
func interfaceLink(name string) (netlink.Link, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return nil, errors.Errorf("interface %s not found", name)
	}

	attrs := link.Attrs()
	if attrs.Flags&net.FlagUp == 0 {
		return nil, errors.Errorf("interface %s is not up", name)
	}
	if attrs.RawFlags&unix.IFF_RUNNING == 0 {
		return nil, errors.Errorf("interface %s is not running", name)
	}

	return link, nil
}
