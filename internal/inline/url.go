package inline

import (
	"errors"
	"strings"
)

// ErrInvalidBookingURL rejects links that don't follow the
// .../booking/{companyID}/{branchID} convention.
var ErrInvalidBookingURL = errors.New("invalid booking url")

// ParseBookingURL extracts the company and branch ids from an inline.app
// booking link. The branch segment may carry a query string, which is
// stripped. Anything not matching the shape is rejected here, before any
// row is ever created.
func ParseBookingURL(raw string) (companyID, branchID string, err error) {
	_, rest, ok := strings.Cut(raw, "/booking/")
	if !ok {
		return "", "", ErrInvalidBookingURL
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 2 {
		return "", "", ErrInvalidBookingURL
	}
	companyID = parts[0]
	branchID, _, _ = strings.Cut(parts[1], "?")
	if companyID == "" || branchID == "" {
		return "", "", ErrInvalidBookingURL
	}
	return companyID, branchID, nil
}
