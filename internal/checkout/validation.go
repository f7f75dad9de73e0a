package checkout

import (
	"regexp"
	"strings"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// FieldErrors maps a field name to its validation message. It satisfies
// error so a failed validation can travel up as one value, but callers are
// expected to render it per-field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	// Kenyan mobile numbers: optional +254/254/0 prefix, then a 7xx or 1xx
	// subscriber number.
	phonePattern = regexp.MustCompile(`^(?:\+?254|0)?(?:7|1)\d{8}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	cardNumberPattern = regexp.MustCompile(`^\d{12,19}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// MpesaDetails is the mobile-money payment input.
type MpesaDetails struct {
	Phone string `json:"phone"`
}

// CardDetails is the card payment input.
type CardDetails struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

// Form is everything the checkout screen collects.
type Form struct {
	Shipping      domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod domain.PaymentMethod   `json:"payment_method"`
	Mpesa         MpesaDetails           `json:"mpesa,omitempty"`
	Card          CardDetails            `json:"card,omitempty"`
}

// ValidateShipping checks the delivery address fields. Stage one of the
// pre-submission validation; nothing reaches the network until it passes.
func ValidateShipping(a domain.ShippingAddress) FieldErrors {
	errs := FieldErrors{}

	required := []struct{ field, value string }{
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"email", a.Email},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"county", a.County},
		{"country", a.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = "is required"
		}
	}

	if _, ok := errs["email"]; !ok && !emailPattern.MatchString(a.Email) {
		errs["email"] = "is not a valid email address"
	}
	if _, ok := errs["phone"]; !ok && !phonePattern.MatchString(normalizePhone(a.Phone)) {
		errs["phone"] = "is not a valid mobile number"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidatePayment checks the inputs specific to the selected payment method.
// Stage two; runs only after the shipping address validates.
func ValidatePayment(f Form) FieldErrors {
	errs := FieldErrors{}

	switch f.PaymentMethod {
	case domain.PaymentMpesa:
		phone := normalizePhone(f.Mpesa.Phone)
		if phone == "" {
			errs["mpesa.phone"] = "is required"
		} else if !phonePattern.MatchString(phone) {
			errs["mpesa.phone"] = "is not a valid mobile number"
		}
	case domain.PaymentCard:
		number := strings.ReplaceAll(f.Card.Number, " ", "")
		switch {
		case number == "":
			errs["card.number"] = "is required"
		case !cardNumberPattern.MatchString(number):
			errs["card.number"] = "is not a valid card number"
		}
		switch {
		case f.Card.Expiry == "":
			errs["card.expiry"] = "is required"
		case !cardExpiryPattern.MatchString(f.Card.Expiry):
			errs["card.expiry"] = "must be in MM/YY format"
		}
		switch {
		case f.Card.CVV == "":
			errs["card.cvv"] = "is required"
		case !cardCVVPattern.MatchString(f.Card.CVV):
			errs["card.cvv"] = "is not a valid CVV"
		}
		if strings.TrimSpace(f.Card.HolderName) == "" {
			errs["card.holder_name"] = "is required"
		}
	case domain.PaymentCashOnDelivery:
		// Nothing extra to collect.
	default:
		errs["payment_method"] = "is not a supported payment method"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, phone)
}
