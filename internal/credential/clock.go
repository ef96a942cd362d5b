package credential

import "time"

// DefaultExpiryBuffer is how long before the real expiry a token is treated
// as expired. A request begun just before expiry would race a still-valid-
// looking token against server-side rejection; invalidating locally first
// avoids sending a doomed request.
const DefaultExpiryBuffer = 5 * time.Minute

// Clock answers expiry questions about a token relative to a safety buffer.
// The zero value is not usable; construct with NewClock.
type Clock struct {
	buffer time.Duration
	now    func() time.Time
}

// NewClock returns a Clock with the given buffer. A non-positive buffer
// falls back to DefaultExpiryBuffer.
func NewClock(buffer time.Duration) *Clock {
	if buffer <= 0 {
		buffer = DefaultExpiryBuffer
	}
	return &Clock{buffer: buffer, now: time.Now}
}

// IsExpired reports whether the token is empty, undecodable, missing an
// expiry claim, or within the buffer of its expiry.
func (c *Clock) IsExpired(token string) bool {
	exp, ok := c.ExpiryInstant(token)
	if !ok {
		return true
	}
	return !c.now().Before(exp.Add(-c.buffer))
}

// ExpiryInstant returns the token's expiry instant. ok is false when the
// token is undecodable or carries no expiry claim.
func (c *Clock) ExpiryInstant(token string) (time.Time, bool) {
	claims, err := DecodeClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// SecondsUntilExpiry returns whole seconds until the token's real expiry,
// clamped at zero. ok is false when the token has no usable expiry.
func (c *Clock) SecondsUntilExpiry(token string) (int64, bool) {
	exp, ok := c.ExpiryInstant(token)
	if !ok {
		return 0, false
	}
	secs := int64(exp.Sub(c.now()) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return secs, true
}
