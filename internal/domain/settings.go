package domain

// AppSettings is the single global affiliate configuration record.
// It is only ever replaced as a whole.
type AppSettings struct {
	GlobalAffiliatePrefix string `json:"globalAffiliatePrefix"`
	AutoApplyPrefix       bool   `json:"autoApplyPrefix"`
}

// DefaultSettings is returned when no settings have been saved yet.
func DefaultSettings() AppSettings {
	return AppSettings{GlobalAffiliatePrefix: "", AutoApplyPrefix: true}
}
