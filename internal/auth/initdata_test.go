package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:TEST-TOKEN"

// signPayload builds a correctly signed initData string the same way the
// Telegram client does: raw key=value pairs plus a hash over the sorted
// check string.
func signPayload(token string, pairs map[string]string) string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	segs := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		lines = append(lines, k+"="+pairs[k])
		segs = append(segs, k+"="+pairs[k])
	}

	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(token))
	secret := mac.Sum(nil)

	mac = hmac.New(sha256.New, secret)
	mac.Write([]byte(strings.Join(lines, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	segs = append(segs, "hash="+hash)
	return strings.Join(segs, "&")
}

func fixedValidator(token string, at time.Time) *Validator {
	v := NewValidator(token, time.Hour)
	v.now = func() time.Time { return at }
	return v
}

func TestValidateAccepts(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	payload := signPayload(testToken, map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"query_id":  "AAEtestquery",
		"user":      `{"id":42,"first_name":"Ann","username":"ann"}`,
	})

	user, err := v.Validate(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Ann", user.FirstName)
	assert.Equal(t, "ann", user.Username)
}

func TestValidateRejectsTamperedHash(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	payload := signPayload(testToken, map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      `{"id":42}`,
	})

	// flip the last character of the hex hash
	last := payload[len(payload)-1]
	flipped := byte('a')
	if last == 'a' {
		flipped = 'b'
	}
	tampered := payload[:len(payload)-1] + string(flipped)

	_, err := v.Validate(tampered)
	assert.ErrorIs(t, err, ErrInvalidInitData)
}

func TestValidateRejectsWrongToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	payload := signPayload("999999:OTHER-TOKEN", map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      `{"id":42}`,
	})

	_, err := v.Validate(payload)
	assert.ErrorIs(t, err, ErrInvalidInitData)
}

func TestValidateRejectsStaleAuthDate(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	// correctly signed but two hours old
	payload := signPayload(testToken, map[string]string{
		"auth_date": strconv.FormatInt(now.Add(-2*time.Hour).Unix(), 10),
		"user":      `{"id":42}`,
	})

	_, err := v.Validate(payload)
	assert.ErrorIs(t, err, ErrInvalidInitData)
}

func TestValidateAcceptsFutureAuthDate(t *testing.T) {
	// Only the upper bound on age is enforced; clock skew into the future
	// passes. Documents current behavior rather than endorsing it.
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	payload := signPayload(testToken, map[string]string{
		"auth_date": strconv.FormatInt(now.Add(5*time.Minute).Unix(), 10),
		"user":      `{"id":42}`,
	})

	_, err := v.Validate(payload)
	assert.NoError(t, err)
}

func TestValidateRejectsMissingHash(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	_, err := v.Validate("auth_date=" + strconv.FormatInt(now.Unix(), 10) + "&user={\"id\":42}")
	assert.ErrorIs(t, err, ErrInvalidInitData)
}

func TestValidateMissingUserYieldsZeroID(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	payload := signPayload(testToken, map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"query_id":  "AAEnouser",
	})

	user, err := v.Validate(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.ID)
}

func TestValidateRejectsMalformedUser(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	payload := signPayload(testToken, map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      "not-json",
	})

	_, err := v.Validate(payload)
	assert.ErrorIs(t, err, ErrInvalidInitData)
}

func TestValidateTolerantParsing(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(testToken, now)

	payload := signPayload(testToken, map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      `{"id":42}`,
	})

	// segments without '=' are skipped silently and do not affect the
	// signature check
	user, err := v.Validate(payload + "&garbage")
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
}

func TestValidateNeverPanicsOnEmptyInputs(t *testing.T) {
	v := NewValidator("", 0)

	for _, in := range []string{"", "&&&", "hash=", "noequals", "a=b"} {
		_, err := v.Validate(in)
		assert.ErrorIs(t, err, ErrInvalidInitData, "input %q", in)
	}
}
