// Package outreach builds WhatsApp deep links for contacting leads.
package outreach

import (
	"net/url"

	"github.com/webgap/leadscout/internal/phone"
)

const (
	linkScheme = "https"
	linkHost   = "wa.me"
)

// BuildMessageLink returns a WhatsApp click-to-chat URL for the given phone
// number, with message pre-filled when non-empty. The number is
// canonicalized but not validated; an unusable number yields a well-formed
// link that simply goes nowhere.
func BuildMessageLink(rawPhone, message string) string {
	u := url.URL{
		Scheme: linkScheme,
		Host:   linkHost,
		Path:   "/" + phone.CanonicalDigits(rawPhone),
	}
	if message != "" {
		q := url.Values{}
		q.Set("text", message)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
