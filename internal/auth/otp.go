package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DevBypassOTP is accepted in place of the stored code outside production.
const DevBypassOTP = "0000"

// GenerateOTP returns a 4-digit numeric one-time code.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand failure should never happen; fall back to a fixed
		// code rather than aborting registration.
		return "1000"
	}
	return fmt.Sprintf("%d", 1000+n.Int64())
}
