// Package transport hands composed messages to the host OS as sms: URIs.
// The OS opens the default messaging application; nothing here can observe
// whether the send actually completed.
package transport

import (
	"net/url"
	"strings"
)

// ComposeURI builds the sms: URI for a recipient and message body. The body
// is percent-encoded with %20 for spaces — messaging handlers do not decode
// the application/x-www-form-urlencoded "+" convention.
func ComposeURI(phone, body string) string {
	return "sms:" + phone + "?body=" + encodeBody(body)
}

func encodeBody(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
