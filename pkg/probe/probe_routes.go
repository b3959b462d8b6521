package probe

import (
	"context"
	"strings"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
)

type defaultRoutesProbe struct{}

func newDefaultRoutesProbe(_ *config.Thread, _ *Env) (Probe, error) {
	return &defaultRoutesProbe{}, nil
}

func (p *defaultRoutesProbe) Exec(ctx context.Context) (string, error) {
	return runBounded(ctx, func() (string, error) {
		routes, err := netlink.RouteList(nil, netlink.FAMILY_ALL)
		if err != nil {
			return "", errors.Wrap(err, "failed to list routes")
		}

		found := 0
		gateways := []string{}

		for i := range routes {
			if !isDefaultRoute(&routes[i]) {
				continue
			}

			found++
			if routes[i].Gw != nil {
				gateways = append(gateways, routes[i].Gw.String())
			}
		}

		if found == 0 {
			return "", errors.New("no default routes found")
		}

		return strings.Join(gateways, ","), nil
	})
}

func isDefaultRoute(route *netlink.Route) bool {
	if route.Dst == nil {
		return true
	}

	ones, _ := route.Dst.Mask.Size()
	return ones == 0 && route.Dst.IP.IsUnspecified()
}
