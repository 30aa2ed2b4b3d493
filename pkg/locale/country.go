package locale

const (
	LanguageEnglish = "english"
	LanguageItalian = "italian"
)

type Country struct {
	Code          string   // ISO 3166-1 alpha-2 country code (e.g., "IT", "US")
	Name          string   // Human-readable country name
	PhonePrefixes []string // E.164 prefixes, with and without the leading plus
	Language      string   // Preferred guest communication language
}

var Countries = map[string]Country{
	"IT": {
		Code:          "IT",
		Name:          "Italy",
		PhonePrefixes: []string{"+39", "39"},
		Language:      LanguageItalian,
	},
	"US": {
		Code:          "US",
		Name:          "United States",
		PhonePrefixes: []string{"+1", "1"},
		Language:      LanguageEnglish,
	},
	"GB": {
		Code:          "GB",
		Name:          "United Kingdom",
		PhonePrefixes: []string{"+44", "44"},
		Language:      LanguageEnglish,
	},
}
