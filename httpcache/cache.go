package httpcache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// noCacheValue disables storage and reuse in both private and shared caches.
const noCacheValue = "no-cache, no-store, max-age=0, must-revalidate, proxy-revalidate"

// now is replaced in tests.
var now = time.Now

// pastDate is the Expires value used to mark a response as already stale.
var pastDate = time.Unix(0, 0).UTC().Format(http.TimeFormat)

// NoCache writes headers asking every cache, including HTTP/1.0 ones, not to
// store the response.
func NoCache(h http.Header) {
	h.Set("Cache-Control", noCacheValue)
	h.Set("Pragma", "no-cache")
	h.Set("Expires", pastDate)
}

// Cache writes Cache-Control and Expires for a freshness lifetime of seconds.
// When private is true only the client may store the response. An optional
// cdnSeconds sets s-maxage for shared caches; negative values are ignored.
// A lifetime of zero or less is equivalent to NoCache.
func Cache(h http.Header, seconds int, private bool, cdnSeconds ...int) {
	if seconds <= 0 {
		NoCache(h)
		return
	}

	var b strings.Builder
	if private {
		b.WriteString("private")
	} else {
		b.WriteString("public")
	}
	b.WriteString(", max-age=")
	b.WriteString(strconv.Itoa(seconds))

	if len(cdnSeconds) > 0 && cdnSeconds[0] >= 0 {
		b.WriteString(", s-maxage=")
		b.WriteString(strconv.Itoa(cdnSeconds[0]))
	}

	h.Set("Cache-Control", b.String())
	h.Del("Pragma")
	h.Set("Expires", now().UTC().Add(time.Duration(seconds)*time.Second).Format(http.TimeFormat))
}
