package model

// DefaultBillingStartDay is used when a profile has no explicit start day.
const DefaultBillingStartDay = 1

// UserProfile holds per-user settings. Mutable by the owning user only.
type UserProfile struct {
	ID              string
	Email           string
	FullName        string
	AvatarURL       string
	BillingStartDay int // 1-31
}

// StartDay returns the configured billing start day, defaulting to 1 when the
// stored value is unset.
func (p *UserProfile) StartDay() int {
	if p == nil || p.BillingStartDay == 0 {
		return DefaultBillingStartDay
	}
	return p.BillingStartDay
}
