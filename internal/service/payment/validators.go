package payment

import "strings"

func isValidParcelID(parcelID string) bool {
	return strings.TrimSpace(parcelID) != ""
}
