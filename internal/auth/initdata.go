// Package auth validates Telegram WebApp initData, the signed payload a Mini
// App sends to prove which Telegram user is calling.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidInitData is the single rejection outcome for every validation
// failure. Callers get no detail about which check failed.
var ErrInvalidInitData = errors.New("invalid init data")

// DefaultTTL is the maximum accepted age of a payload's auth_date.
const DefaultTTL = time.Hour

// hmacKeyPrefix is the fixed HMAC key used to derive the signing secret from
// the bot token. The token is the HMAC message here, not the key.
const hmacKeyPrefix = "WebAppData"

// TelegramUser is the identity claim carried in the payload's "user" field.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// Validator checks initData signatures against a bot token shared with
// Telegram. It is stateless apart from a clock read and safe for concurrent
// use.
type Validator struct {
	botToken string
	ttl      time.Duration
	now      func() time.Time
}

// NewValidator creates a Validator for the given bot token. A non-positive
// ttl falls back to DefaultTTL.
func NewValidator(botToken string, ttl time.Duration) *Validator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Validator{
		botToken: botToken,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Validate verifies a raw initData string and returns the identity it
// asserts. Every failure mode collapses to ErrInvalidInitData so callers cannot
// probe which check tripped.
//
// The payload is a sequence of key=value pairs joined by "&". Values stay
// exactly as received: the signature covers the raw bytes, so nothing is
// URL-decoded before checking.
//
// A missing "user" field is not rejected here; the returned identity then has
// ID 0 and the caller must treat that as an authentication failure.
func (v *Validator) Validate(initData string) (*TelegramUser, error) {
	pairs := make(map[string]string)
	for _, seg := range strings.Split(initData, "&") {
		k, val, ok := strings.Cut(seg, "=")
		if !ok {
			continue // tolerate segments without '='
		}
		pairs[k] = val
	}

	// Missing hash stays "" and fails the compare below.
	gotHash := pairs["hash"]
	delete(pairs, "hash")

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var check strings.Builder
	for i, k := range keys {
		if i > 0 {
			check.WriteByte('\n')
		}
		check.WriteString(k)
		check.WriteByte('=')
		check.WriteString(pairs[k])
	}

	mac := hmac.New(sha256.New, []byte(hmacKeyPrefix))
	mac.Write([]byte(v.botToken))
	secretKey := mac.Sum(nil)

	mac = hmac.New(sha256.New, secretKey)
	mac.Write([]byte(check.String()))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return nil, ErrInvalidInitData
	}

	// Only the upper bound is enforced: a future auth_date passes. Missing or
	// unparseable auth_date defaults to 0 and fails the age check.
	authDate, _ := strconv.ParseInt(pairs["auth_date"], 10, 64)
	if v.now().Unix()-authDate > int64(v.ttl.Seconds()) {
		return nil, ErrInvalidInitData
	}

	user := &TelegramUser{}
	if raw, ok := pairs["user"]; ok {
		if err := json.Unmarshal([]byte(raw), user); err != nil {
			return nil, ErrInvalidInitData
		}
	}
	return user, nil
}
