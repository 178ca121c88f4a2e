// Package orderid renders human-facing order numbers of the form
// PREFIX-YYYYMMDD-NNNNN, e.g. ADM-20250115-00042.
package orderid

import (
	"errors"
	"fmt"
	"time"

	"taaza/backend/internal/domain"
)

// ErrInvalidChannel is returned for channels other than admin/customer.
var ErrInvalidChannel = errors.New("invalid order channel")

// Prefix maps a channel to its order-id prefix.
func Prefix(channel string) (string, error) {
	switch channel {
	case domain.ChannelAdmin:
		return "ADM", nil
	case domain.ChannelCustomer:
		return "CUS", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChannel, channel)
	}
}

// Generate builds the order id for a channel, sequence number and
// submission time. The date part is the UTC calendar date. The
// sequence is zero-padded to five digits; values past 99999 keep all
// their digits.
func Generate(channel string, seq int64, now time.Time) (string, error) {
	prefix, err := Prefix(channel)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%05d", prefix, now.UTC().Format("20060102"), seq), nil
}
