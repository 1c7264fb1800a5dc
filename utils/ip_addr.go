package utils

import (
	"net/http"
	"regexp"
	"strings"
)

// netAddrPattern is the pattern for parsing the IP address out of a remote
// address string. This is needed because the address includes a port number
// at the end
var netAddrPattern = regexp.MustCompile(`^(.*):\d+$`)

// GetIpAddress gets the IP address from a set of headers and the
// connection's remote address
func GetIpAddress(
	header http.Header,
	remoteAddr string,
) string {

	// If there are headers, try to pull the CF-Connecting-IP header, which is
	// forwarded from Cloudflare in the event that Cloudflare is being used.
	// Failing that, take the leftmost X-Forwarded-For hop.
	if header != nil {
		ip := header.Get("CF-Connecting-IP")
		if len(ip) > 0 {
			return ip
		}
		forwarded := header.Get("X-Forwarded-For")
		if len(forwarded) > 0 {
			ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if len(ip) > 0 {
				return ip
			}
		}
	}

	// If the address is empty, return an empty string
	if len(remoteAddr) == 0 {
		return ""
	}

	// Match against the pattern in order to pull the IP address out of the
	// address
	submatch := netAddrPattern.FindStringSubmatch(remoteAddr)
	if len(submatch) < 2 {
		return ""
	}

	// Clean up the IP address. These only have an effect in the case of IPv6
	// addresses
	ip := submatch[1]
	ip = strings.Trim(ip, "[]")
	ip = strings.TrimPrefix(ip, "::ffff:")
	return ip

}
