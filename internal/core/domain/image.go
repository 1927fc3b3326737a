package domain

import (
	"encoding/base64"
	"errors"
	"math"
	"strings"
	"time"
)

// swagger:model domain.CacheEntry
type CacheEntry struct {
	URL       string `json:"url"`
	Payload   string `json:"base64"`
	ExpiresAt int64  `json:"expires"`
}

// NewCacheEntry stamps the entry with an expiry of now+ttl in epoch milliseconds.
func NewCacheEntry(url, payload string, now time.Time, ttl time.Duration) *CacheEntry {
	return &CacheEntry{
		URL:       url,
		Payload:   payload,
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}
}

// Fresh reports whether the entry can still be served at now.
func (e *CacheEntry) Fresh(now time.Time) bool {
	return e.ExpiresAt > now.UnixMilli()
}

// Expired is the sweep condition; an entry expiring exactly at now is neither fresh nor expired.
func (e *CacheEntry) Expired(now time.Time) bool {
	return e.ExpiresAt < now.UnixMilli()
}

func (e *CacheEntry) TTL(now time.Time) time.Duration {
	return time.UnixMilli(e.ExpiresAt).Sub(now)
}

type FetchedImage struct {
	Body        []byte
	ContentType string
}

type Stats struct {
	TotalImages  int     `json:"totalImages" example:"42"`
	ApproxSizeMB float64 `json:"approxSizeMB" example:"3.17"`
}

// NewStats approximates the decoded size of the payloads (base64 is 4/3 of the binary).
func NewStats(totalImages int, payloadChars int) Stats {
	bytes := float64(payloadChars) * 0.75
	return Stats{
		TotalImages:  totalImages,
		ApproxSizeMB: math.Round(bytes/1024/1024*100) / 100,
	}
}

// DataURI renders body as a base64 data URI.
func DataURI(contentType string, body []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(contentType) + base64.StdEncoding.EncodedLen(len(body)))
	b.WriteString("data:")
	b.WriteString(contentType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(body))
	return b.String()
}

var errMalformedDataURI = errors.New("malformed data uri")

// ParseDataURI decodes a base64 data URI produced by DataURI.
func ParseDataURI(uri string) (contentType string, body []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errMalformedDataURI
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errMalformedDataURI
	}
	contentType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errMalformedDataURI
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, err
	}
	return contentType, body, nil
}
