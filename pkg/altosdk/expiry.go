package altosdk

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshLookahead is the margin before actual expiry at which a proactive
// refresh is triggered, avoiding mid-call 401s for normal traffic.
const refreshLookahead = 30 * time.Second

// needsRefresh reports whether token is expired, about to expire, or simply
// undecodable. The signature is deliberately not verified: the client only
// reads the expiry claim, the server remains the authority on validity.
//
// A token that cannot be decoded is treated as expired. Refreshing a live
// token costs one request; trusting a dead one abandons the call.
func needsRefresh(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.Time.Before(now.Add(refreshLookahead))
}
