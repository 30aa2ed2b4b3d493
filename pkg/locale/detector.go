package locale

import "strings"

func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)
	if normalized == "" {
		return nil
	}

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return &country
			}
		}
	}

	return nil
}

// InferLanguageFromPhone maps a guest phone number to a communication
// language by its country prefix. Unknown prefixes get the fallback.
func InferLanguageFromPhone(phone string, fallback string) string {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.Language
	}
	return fallback
}
