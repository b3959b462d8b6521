package probe

import (
	"context"
	"strings"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/internal/helper"
	"github.com/miekg/dns"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type dnsProbe struct {
	addr  string
	net   string
	qname string
	qtype uint16
}

func newDNSProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	cfg.Host = helper.ResolveEnv(cfg.Host)
	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}

	qname := helper.SetDefaultStringIfEmpty(cfg.QName, ".")
	qtypeName := helper.SetDefaultStringIfEmpty(strings.ToUpper(cfg.QType), "NS")

	qtype, ok := dns.StringToType[qtypeName]
	if !ok {
		return nil, errors.Errorf("unknown dns query type %q", cfg.QType)
	}

	network := "udp"
	if cfg.TCP {
		network = "tcp"
	}

	return &dnsProbe{
		addr:  hostPort(cfg.Host, cfg.Port, 53),
		net:   network,
		qname: qname,
		qtype: qtype,
	}, nil
}

func (p *dnsProbe) Exec(ctx context.Context) (string, error) {
	client := dns.Client{Net: p.net}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(p.qname), p.qtype)
	m.RecursionDesired = true

	in, _, err := client.ExchangeContext(ctx, m, p.addr)
	if err != nil {
		return "", err
	}

	if in.Rcode != dns.RcodeSuccess {
		return "", errors.Errorf("query for %q returned %s", p.qname, dns.RcodeToString[in.Rcode])
	}

	answers := make([]string, 0, len(in.Answer))
	for _, rr := range in.Answer {
		answers = append(answers, rr.String())
	}

	log.WithFields(log.Fields{"kind": "probe", "class": "dns", "server": p.addr}).Debug("resolved")

	return strings.Join(answers, ","), nil
}
