package services

import (
	"net/url"
	"strings"
)

// EncodeImageURL percent-encodes every path segment of raw so that URLs with
// unencoded non-ASCII segments (Arabic product images, for example) can be
// fetched. Scheme, host, query and fragment are left as they are. When raw is
// not an absolute URL a looser split on "://" is tried, and when that fails too
// raw is returned unchanged and the fetch is left to fail on its own.
func EncodeImageURL(raw string) string {
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" && u.Host != "" {
		if encoded, ok := encodeParsedPath(u); ok {
			return encoded
		}
	}

	return encodeLoosely(raw)
}

func encodeParsedPath(u *url.URL) (string, bool) {
	segments := strings.Split(u.EscapedPath(), "/")
	for i, segment := range segments {
		decoded, err := url.PathUnescape(segment)
		if err != nil {
			return "", false
		}
		segments[i] = url.PathEscape(decoded)
	}

	rawPath := strings.Join(segments, "/")
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", false
	}
	u.Path = path
	u.RawPath = rawPath
	return u.String(), true
}

func encodeLoosely(raw string) string {
	schemeEnd := strings.Index(raw, "://")
	if schemeEnd < 0 {
		return raw
	}
	hostEnd := strings.Index(raw[schemeEnd+3:], "/")
	if hostEnd < 0 {
		return raw
	}
	hostEnd += schemeEnd + 3

	segments := strings.Split(raw[hostEnd:], "/")
	for i := 1; i < len(segments); i++ {
		segments[i] = url.PathEscape(segments[i])
	}
	return raw[:hostEnd] + strings.Join(segments, "/")
}
