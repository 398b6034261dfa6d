package enums

import "fmt"

// PackagingPreference captures how a user wants orders packaged.
type PackagingPreference string

const (
	PackagingPreferenceStandard    PackagingPreference = "standard"
	PackagingPreferenceMinimal     PackagingPreference = "minimal"
	PackagingPreferencePlasticFree PackagingPreference = "plastic_free"
)

var validPackagingPreferences = []PackagingPreference{
	PackagingPreferenceStandard,
	PackagingPreferenceMinimal,
	PackagingPreferencePlasticFree,
}

// String implements fmt.Stringer.
func (p PackagingPreference) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PackagingPreference.
func (p PackagingPreference) IsValid() bool {
	for _, candidate := range validPackagingPreferences {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePackagingPreference converts raw input into a PackagingPreference.
func ParsePackagingPreference(value string) (PackagingPreference, error) {
	for _, candidate := range validPackagingPreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid packaging preference %q", value)
}
