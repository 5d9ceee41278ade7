package countries

// Rule is a static customs-rule row for one destination country.
type Rule struct {
	ISO2          string `json:"iso2"`
	ISO3          string `json:"iso3"`
	EnglishName   string `json:"english_name"`
	LocalizedName string `json:"localized_name"`
	CN23Required  bool   `json:"cn23_required"`
}
