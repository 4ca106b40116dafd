package logging

import "net/url"

const redacted = "REDACTED"

// sensitiveParams are query parameters that carry credentials, such as the websocket token.
var sensitiveParams = []string{"token", "access_token"}

// RedactQuery masks credential values in a raw query string. A query that does not parse
// is dropped entirely.
func RedactQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return redacted
	}
	changed := false
	for _, key := range sensitiveParams {
		if _, ok := values[key]; ok {
			values.Set(key, redacted)
			changed = true
		}
	}
	if !changed {
		return rawQuery
	}
	return values.Encode()
}
