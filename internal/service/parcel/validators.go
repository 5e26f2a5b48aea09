package parcel

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"parcelflow/internal/entities"
)

const maxNotesLength = 500

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func isValidParcelID(id string) bool {
	return uuid.Validate(id) == nil
}

func isValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func isValidNotes(notes string) bool {
	return utf8.RuneCountInString(notes) <= maxNotesLength
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateCreate(create entities.ParcelCreate) error {
	if create.OriginStationID <= 0 || create.DestinationStationID <= 0 {
		return ErrMissingRequiredFields
	}
	if create.OriginStationID == create.DestinationStationID {
		return ErrInvalidRoute
	}

	p := create.Payload
	if isBlank(p.SenderName) || isBlank(p.RecipientName) || isBlank(p.SenderPhone) || isBlank(p.RecipientPhone) {
		return ErrMissingRequiredFields
	}
	if !isValidPhone(p.SenderPhone) || !isValidPhone(p.RecipientPhone) {
		return ErrInvalidPhone
	}
	if p.WeightGrams <= 0 {
		return ErrInvalidWeight
	}
	if p.DeclaredValue < 0 {
		return ErrInvalidDeclaredValue
	}
	if p.DeliveryType != "" && !p.DeliveryType.IsValid() {
		return ErrInvalidDeliveryType
	}
	if create.PaymentStatus != "" &&
		create.PaymentStatus != entities.PaymentUnpaid &&
		create.PaymentStatus != entities.PaymentPending {
		return ErrInvalidPaymentStatus
	}
	return nil
}
