package booking

import (
	"regexp"
	"strings"

	"glowhub/models"
)

// Pakistani mobile numbers: 03XXXXXXXXX, 3XXXXXXXXX or +923XXXXXXXXX.
var mobileNumberPattern = regexp.MustCompile(`^(\+92|0)?3\d{9}$`)

// normalizeContact strips the separators customers commonly type.
func normalizeContact(n string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(n))
}

func validContactNumber(n string) bool {
	return mobileNumberPattern.MatchString(normalizeContact(n))
}

// validateRequest checks the parts of a selection that need no lookups.
func validateRequest(req models.BookingRequest) error {
	switch {
	case req.ResourceID == "":
		return newError(CodeResourceNotFound, "resourceId is required", nil)
	case req.ServiceID == "":
		return newError(CodeInvalidSelection, "serviceId is required", nil)
	case req.SlotID == "":
		return newError(CodeInvalidSelection, "slotId is required", nil)
	case req.Date == "":
		return newError(CodeInvalidSelection, "date is required", nil)
	case !req.PaymentMethod.Valid():
		return newError(CodeInvalidSelection, "unsupported payment method "+string(req.PaymentMethod), nil)
	}
	return nil
}

// validateContact requires a mobile number for wallet payments that
// actually collect money.
func validateContact(req models.BookingRequest, amount int64) error {
	if amount > 0 && req.PaymentMethod.IsWallet() && !validContactNumber(req.ContactNumber) {
		return newError(CodeInvalidSelection, string(req.PaymentMethod)+" requires a valid mobile number", nil)
	}
	return nil
}
