package probe

import (
	"context"
	"io"
	"net/http"
	"regexp"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/internal/helper"
	"github.com/pkg/errors"
)

type urlProbe struct {
	url      string
	response *regexp.Regexp
}

func newURLProbe(cfg *config.Thread, _ *Env) (Probe, error) {
	cfg.URL = helper.ResolveEnv(cfg.URL)
	if cfg.URL == "" {
		return nil, errors.New("url is required")
	}

	pattern := helper.SetDefaultStringIfEmpty(cfg.Response, `(?s).*`)
	response, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid response pattern %q", cfg.Response)
	}

	return &urlProbe{
		url:      cfg.URL,
		response: response,
	}, nil
}

func (p *urlProbe) Exec(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", err
	}

	client := &http.Client{}

	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", errors.Errorf("%s returned status %q", p.url, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	response := trimTrailingSpace(string(body))
	if !matchPrefix(p.response, response) {
		return "", errors.Errorf("response %q does not match %q", response, p.response.String())
	}

	return response, nil
}
