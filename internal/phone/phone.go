// Package phone parses numbers with libphonenumber and converts between the
// stored national form of a number and the E.164 form the gateway expects.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// CountryPrefix is the prefix stripped before storage and restored at read time.
const CountryPrefix = "+1"

// DefaultRegion is used when no region is configured.
const DefaultRegion = "US"

// ErrInvalid is returned for input that is not a valid number in the region.
var ErrInvalid = errors.New("invalid phone number")

// Parse validates raw as a number dialled from region and returns its E.164 form.
func Parse(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, regionOrDefault(region))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Normalize returns the E.164 form of a configured number. An empty input
// stays empty.
func Normalize(raw, region string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	return Parse(raw, region)
}

// SameNumber reports whether a and b denote the same number when dialled
// from region. Input that does not parse never matches.
func SameNumber(a, b, region string) bool {
	region = regionOrDefault(region)

	na, err := phonenumbers.Parse(a, region)
	if err != nil {
		return false
	}

	nb, err := phonenumbers.Parse(b, region)
	if err != nil {
		return false
	}

	return phonenumbers.Format(na, phonenumbers.E164) == phonenumbers.Format(nb, phonenumbers.E164)
}

// National returns the storage form of an E.164 number. Numbers outside
// country code 1 are kept in full E.164 form.
func National(e164 string) string {
	if strings.HasPrefix(e164, CountryPrefix) {
		return strings.TrimPrefix(e164, CountryPrefix)
	}

	return e164
}

// E164 returns the gateway form of a stored number.
func E164(national string) string {
	if national == "" || strings.HasPrefix(national, "+") {
		return national
	}

	return CountryPrefix + national
}

// Digits strips everything but the digits from s.
func Digits(s string) string {
	return phonenumbers.NormalizeDigitsOnly(s)
}

func regionOrDefault(region string) string {
	if region == "" {
		return DefaultRegion
	}

	return strings.ToUpper(region)
}
