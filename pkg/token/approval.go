// Package token issues and verifies the signed capability tokens embedded in
// moderation emails. A token authorizes exactly one action on one event and
// is self-contained: verification needs the server secret and nothing else.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
)

// Action is the moderation decision a token authorizes.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Valid reports whether the action is one of the two known decisions.
func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// Claims are the verified contents of an approval token.
type Claims struct {
	Action  Action
	EventID string
}

// DefaultTTL bounds token validity when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Signer creates and validates approval capability tokens. The secret must be
// dedicated to moderation tokens, not shared with unrelated infrastructure.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer with the provided secret and TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Issue returns a signed token authorizing the action on the event.
func (s *Signer) Issue(action Action, eventID string) (string, time.Time, error) {
	if !action.Valid() {
		return "", time.Time{}, fmt.Errorf("unknown action %q", action)
	}
	if eventID == "" {
		return "", time.Time{}, fmt.Errorf("eventID required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}

	expiresAt := s.now().Add(s.ttl)
	payload := fmt.Sprintf("%s:%s:%d", action, eventID, expiresAt.UnixMilli())
	signature := base64.RawURLEncoding.EncodeToString(s.mac(payload))
	token := base64.RawURLEncoding.EncodeToString([]byte(payload + ":" + signature))
	return token, expiresAt, nil
}

// Verify decodes and checks a token, returning its claims when every check
// passes. It is a pure function of the token and the secret: no store lookup,
// so a previously redeemed token verifies again until it expires.
func (s *Signer) Verify(token string) (Claims, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Claims{}, appErrors.Wrap(err, appErrors.ErrTokenInvalid.Code, appErrors.ErrTokenInvalid.Status, "malformed moderation link")
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 {
		return Claims{}, appErrors.Clone(appErrors.ErrTokenInvalid, "malformed moderation link")
	}

	action := Action(parts[0])
	if !action.Valid() {
		return Claims{}, appErrors.Clone(appErrors.ErrTokenInvalid, "unknown moderation action")
	}

	eventID := parts[1]
	if _, err := uuid.Parse(eventID); err != nil {
		return Claims{}, appErrors.Clone(appErrors.ErrTokenInvalid, "malformed event reference")
	}

	expMillis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Claims{}, appErrors.Clone(appErrors.ErrTokenInvalid, "malformed moderation link")
	}
	if s.now().After(time.UnixMilli(expMillis)) {
		return Claims{}, appErrors.ErrTokenExpired
	}

	payload := strings.Join(parts[:3], ":")
	expected := base64.RawURLEncoding.EncodeToString(s.mac(payload))
	if !hmac.Equal([]byte(expected), []byte(parts[3])) {
		return Claims{}, appErrors.ErrTokenBadSignature
	}

	return Claims{Action: action, EventID: eventID}, nil
}

func (s *Signer) mac(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}
