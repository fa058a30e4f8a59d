package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateRefundNo returns a 20 digit refund request number:
// UTC yyyyMMddHHmmss followed by 6 random digits.
func GenerateRefundNo() string {
	now := time.Now().UTC()

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(int64(now.Nanosecond()/int(time.Microsecond)) % 1000000)
	}

	return fmt.Sprintf("%s%06d", now.Format("20060102150405"), n.Int64())
}
