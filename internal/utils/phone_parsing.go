package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneComponents represents the parsed components of a phone number
type PhoneComponents struct {
	DDI   string `json:"ddi"`
	DDD   string `json:"ddd"`
	Valor string `json:"valor"`
	Full  string `json:"full"`
}

// ParsePhoneNumber parses a free-form phone string such as "(21) 98765-4321".
// Numbers without a leading '+' are read in defaultRegion (e.g. "BR").
func ParsePhoneNumber(phoneString, defaultRegion string) (*PhoneComponents, error) {
	cleanPhone := strings.TrimSpace(phoneString)
	if cleanPhone == "" {
		return nil, fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(cleanPhone, defaultRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	countryCode := num.GetCountryCode()
	nationalNumber := phonenumbers.GetNationalSignificantNumber(num)

	components := &PhoneComponents{
		DDI:   fmt.Sprintf("%d", countryCode),
		Full:  phonenumbers.Format(num, phonenumbers.E164),
		Valor: nationalNumber,
	}

	// Brazilian numbers carry a two digit area code
	if countryCode == 55 && len(nationalNumber) > 2 {
		components.DDD = nationalNumber[:2]
		components.Valor = nationalNumber[2:]
	}

	return components, nil
}

// NormalizePhone returns the E.164 form of phoneString when it parses as a valid
// number, and the trimmed input otherwise.
func NormalizePhone(phoneString, defaultRegion string) (string, bool) {
	components, err := ParsePhoneNumber(phoneString, defaultRegion)
	if err != nil {
		return strings.TrimSpace(phoneString), false
	}
	return components.Full, true
}
