package services

import (
	"strconv"
	"unicode/utf16"
)

// HashURL is the 32-bit rolling string hash (h*31 + c) over the UTF-16 code
// units of url, rendered in base 16 with a leading '-' for negative values.
// Collisions are possible; the url stored inside the entry stays authoritative.
func HashURL(url string) string {
	var hash int32
	for _, c := range utf16.Encode([]rune(url)) {
		hash = (hash << 5) - hash + int32(c)
	}
	return strconv.FormatInt(int64(hash), 16)
}

// StorageKey is the persistent store key for url under the cache namespace.
func StorageKey(prefix, url string) string {
	return prefix + HashURL(url)
}
