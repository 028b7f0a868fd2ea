// Package source turns catalog links into URLs the audio player can fetch.
package source

import (
	"net/url"
	"strings"
)

const (
	shareMarker = "dropbox"
	shareDomain = "dropbox.com"
	shareHost   = "www.dropbox.com"
	directHost  = "dl.dropboxusercontent.com"
	rawFlag     = "raw=1"
)

// Resolve rewrites a sharing-page link into a direct-content link.
//
// Dropbox share links point to an HTML preview; the same file is served as
// raw bytes from dl.dropboxusercontent.com when raw=1 is set. Links on any
// other host are returned unchanged. Resolve is idempotent.
func Resolve(raw string) string {
	if raw == "" || !strings.Contains(raw, shareMarker) {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fallback(raw)
	}

	switch strings.ToLower(u.Hostname()) {
	case shareHost, shareDomain:
		u.Host = directHost
	case directHost:
		if u.Query().Get("raw") == "1" {
			return raw
		}
	default:
		return raw
	}

	q := u.Query()
	q.Del("dl")
	q.Set("raw", "1")
	u.RawQuery = q.Encode()
	return u.String()
}

// fallback handles links net/url refuses: swap the host textually and append
// the raw flag.
func fallback(raw string) string {
	out := strings.Replace(raw, shareHost, directHost, 1)
	if strings.Contains(out, rawFlag) {
		return out
	}
	if strings.Contains(out, "?") {
		return out + "&" + rawFlag
	}
	return out + "?" + rawFlag
}

// IsDirect reports whether link already points at the direct-content host.
func IsDirect(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), directHost) && u.Query().Get("raw") == "1"
}
