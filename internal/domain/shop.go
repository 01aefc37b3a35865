package domain

// Shop is one installed merchant store.
type Shop struct {
	Domain      string `json:"domain"`
	AccessToken string `json:"-"`
	Plan        string `json:"plan"`
}

const PlanPremium = "premium"

// HasPremium reports whether the shop's subscription entitles it to
// premium catalog sections.
func (s Shop) HasPremium() bool {
	return s.Plan == PlanPremium
}

// ShopCredentials is what the theme client needs to talk to the platform
// API on behalf of one shop.
type ShopCredentials struct {
	Domain      string
	AccessToken string
}

func (s Shop) Credentials() ShopCredentials {
	return ShopCredentials{Domain: s.Domain, AccessToken: s.AccessToken}
}
