package schema

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Named string formats.
const (
	FormatEmail    = "email"
	FormatURI      = "uri"
	FormatURL      = "url"
	FormatUUID     = "uuid"
	FormatCUID     = "cuid"
	FormatSemver   = "semver"
	FormatDate     = "date"
	FormatTime     = "time"
	FormatDateTime = "date-time"
	FormatIPv4     = "ipv4"
	FormatIPv6     = "ipv6"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	cuidPattern  = regexp.MustCompile(`^c[^\s-]{8,}$`)
	timePattern  = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
)

var formatCheckers = map[string]func(string) bool{
	FormatEmail:  emailPattern.MatchString,
	FormatURI:    isURL,
	FormatURL:    isURL,
	FormatUUID:   isUUID,
	FormatCUID:   cuidPattern.MatchString,
	FormatSemver: isSemver,
	FormatDate: func(s string) bool {
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	},
	FormatTime: timePattern.MatchString,
	FormatDateTime: func(s string) bool {
		_, err := time.Parse(time.RFC3339Nano, s)
		return err == nil
	},
	FormatIPv4: func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil && !strings.Contains(s, ":")
	},
	FormatIPv6: func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && strings.Contains(s, ":")
	},
}

// KnownFormat reports whether name is a supported string format.
func KnownFormat(name string) bool {
	_, ok := formatCheckers[name]
	return ok
}

func checkFormat(name, s string) bool {
	fn, ok := formatCheckers[name]
	return ok && fn(s)
}

// isURL accepts absolute URLs: a scheme plus either a host or an opaque part
// (mailto:, urn:).
func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// isUUID accepts only the canonical 36-character hyphenated form, unlike
// uuid.Parse which also takes urn: and braced variants.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isSemver(s string) bool {
	_, err := semver.StrictNewVersion(s)
	return err == nil
}
