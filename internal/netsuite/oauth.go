package netsuite

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Credentials is the OAuth 1.0a token-based-authentication credential set for
// a NetSuite account.
type Credentials struct {
	Account        string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
}

// complete reports whether every field needed to sign a request is present.
func (c Credentials) complete() bool {
	return c.Account != "" && c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.TokenID != "" && c.TokenSecret != ""
}

const (
	signatureMethod = "HMAC-SHA256"
	oauthVersion    = "1.0"
)

// newNonce returns 16 bytes of fresh entropy, hex encoded. Every request
// signs with its own nonce; nothing is reused across calls.
func newNonce() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// percentEncode escapes per RFC 3986: unreserved characters pass through,
// everything else becomes %XX with uppercase hex.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '-' || ch == '.' || ch == '_' || ch == '~':
			b.WriteByte(ch)
		default:
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}

// BaseString derives the OAuth signature base string for a request. Query
// parameters on the target URL are merged with the oauth parameters; pairs
// are percent-encoded, sorted, joined, and the three components are each
// encoded once more before concatenation. The derivation is deterministic:
// identical inputs always produce an identical base string.
func BaseString(method, rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	origin := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.EscapedPath()

	merged := make(map[string]string, len(params)+4)
	for k, v := range params {
		merged[k] = v
	}
	for k, vs := range u.Query() {
		if len(vs) > 0 {
			merged[k] = vs[0]
		}
	}

	pairs := make([]string, 0, len(merged))
	for k, v := range merged {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
	}
	sort.Strings(pairs)

	return strings.ToUpper(method) + "&" + percentEncode(origin) + "&" +
		percentEncode(strings.Join(pairs, "&")), nil
}

// Sign computes the base64 HMAC-SHA256 signature of a base string under the
// concatenated secret key.
func Sign(baseString, consumerSecret, tokenSecret string) string {
	mac := hmac.New(sha256.New, []byte(consumerSecret+"&"+tokenSecret))
	mac.Write([]byte(baseString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// authorizationHeader assembles the OAuth header for one request. The
// signature is recomputed from a fresh nonce and timestamp on every call;
// headers are never cached or replayed, even for identical retries.
func authorizationHeader(creds Credentials, method, rawURL, nonce, timestamp string) (string, error) {
	params := map[string]string{
		"oauth_consumer_key":     creds.ConsumerKey,
		"oauth_token":            creds.TokenID,
		"oauth_signature_method": signatureMethod,
		"oauth_timestamp":        timestamp,
		"oauth_nonce":            nonce,
		"oauth_version":          oauthVersion,
	}

	base, err := BaseString(method, rawURL, params)
	if err != nil {
		return "", err
	}
	signature := Sign(base, creds.ConsumerSecret, creds.TokenSecret)

	var b strings.Builder
	fmt.Fprintf(&b, `OAuth realm=%q`, creds.Account)
	fmt.Fprintf(&b, `, oauth_consumer_key=%q`, percentEncode(creds.ConsumerKey))
	fmt.Fprintf(&b, `, oauth_token=%q`, percentEncode(creds.TokenID))
	fmt.Fprintf(&b, `, oauth_signature_method=%q`, signatureMethod)
	fmt.Fprintf(&b, `, oauth_timestamp=%q`, timestamp)
	fmt.Fprintf(&b, `, oauth_nonce=%q`, percentEncode(nonce))
	fmt.Fprintf(&b, `, oauth_version=%q`, oauthVersion)
	fmt.Fprintf(&b, `, oauth_signature=%q`, percentEncode(signature))
	return b.String(), nil
}
