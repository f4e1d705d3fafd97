package rbm

import "regexp"

// E.164: a plus sign, a non-zero country code digit, at most 15 digits total.
var msisdnPattern = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// PhonePath converts an msisdn into the API resource name "phones/{msisdn}".
func PhonePath(msisdn string) string {
	return "phones/" + msisdn
}

// ValidateMSISDN checks that msisdn is in E.164 format.
func ValidateMSISDN(msisdn string) error {
	if !msisdnPattern.MatchString(msisdn) {
		return invalidArgument("msisdn %q is not in E.164 format", msisdn)
	}
	return nil
}

func phoneResource(msisdn string) (string, error) {
	if err := ValidateMSISDN(msisdn); err != nil {
		return "", err
	}
	return PhonePath(msisdn), nil
}
