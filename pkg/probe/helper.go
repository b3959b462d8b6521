package probe

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const sysctlRoot = "/proc/sys"

// runBounded runs fn in a separate goroutine so that callers that cannot
// pass a context down (netlink operations) still abandon on ctx expiry.
func runBounded(ctx context.Context, fn func() (string, error)) (string, error) {
	type result struct {
		message string
		err     error
	}

	results := make(chan result, 1)
	go func() {
		message, err := fn()
		results <- result{message, err}
	}()

	select {
	case r := <-results:
		return r.message, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// matchPrefix reports whether re matches at the start of s. The pattern is
// anchored at the start of the input only, never at the end.
func matchPrefix(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}

func trimTrailingSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// readSysctl reads a sysctl variable ("net.ipv4.ip_forward") from below
// root. Any read failure yields the empty string.
func readSysctl(root, variable string) string {
	path := filepath.Join(root, strings.ReplaceAll(variable, ".", "/"))

	contents, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(contents))
}

func hostPort(host string, port, defaultPort int) string {
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
