//
//  internal/request/info.go
//
//  Per-request metadata exposed to templates as .slingRequest.Info:
//  parsed user agent, client IP with best-effort geolocation, and the
//  arrival timestamp.  The structs are inert and safe to JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package request

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// UA holds the parsed user-agent properties.
type UA struct {
	Raw         string
	Browser     string // "Chrome", "Firefox", …
	Version     string // "124.0.6367"
	OS          string // "macOS", "Windows", …
	OSVersion   string
	Device      string // "Desktop", "Phone", "Tablet", …
	IsBot       bool
	PrimaryLang string // first Accept-Language tag, lower-cased
}

// Geo holds IP-based location hints.  Fields stay empty without a GeoLite2
// database or on a miss.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// Info is attached to every Request.
type Info struct {
	UA        UA
	Geo       Geo
	Timestamp time.Time
}

var (
	geoMu     sync.RWMutex
	geoReader *geoip2.Reader
)

// OpenGeo opens a GeoLite2-City database.  Without it Geo carries only IP.
func OpenGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoMu.Lock()
	old := geoReader
	geoReader = r
	geoMu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// CloseGeo releases the GeoLite2 handle, if any.
func CloseGeo() {
	geoMu.Lock()
	defer geoMu.Unlock()
	if geoReader != nil {
		_ = geoReader.Close()
		geoReader = nil
	}
}

// newInfo collects metadata for r.
func newInfo(r *http.Request) *Info {
	ip := clientIP(r)
	return &Info{
		UA:        parseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
		Geo:       lookupGeo(ip),
		Timestamp: time.Now().UTC(),
	}
}

// clientIP takes the left-most parseable X-Forwarded-For entry, then
// X-Real-Ip, then RemoteAddr.
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-Ip"))); ip != nil {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}

func parseUA(header, acceptLang string) UA {
	u := uasurfer.Parse(header)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}
	return UA{
		Raw:         header,
		Browser:     strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:     dotted(u.Browser.Version),
		OS:          osName,
		OSVersion:   dotted(u.OS.Version),
		Device:      deviceName(u.DeviceType),
		IsBot:       u.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}
}

// dotted renders 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func dotted(v uasurfer.Version) string {
	parts := []int{v.Major, v.Minor, v.Patch}
	n := len(parts)
	for n > 1 && parts[n-1] == 0 {
		n--
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = strconv.Itoa(parts[i])
	}
	return strings.Join(out, ".")
}

func deviceName(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}

func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag := strings.TrimSpace(strings.Split(al, ",")[0])
	if i := strings.IndexByte(tag, ';'); i != -1 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

func lookupGeo(ip net.IP) Geo {
	geoMu.RLock()
	defer geoMu.RUnlock()
	if geoReader == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
