package entities

import "net/url"

// DefaultCategory is assigned to businesses stored without a category
const DefaultCategory = "Uncategorized"

// ClosedHours is the opening-hours text for a day with no hours recorded
const ClosedHours = "Closed"

// Business represents a listed local business
type Business struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Logo        string   `json:"logo"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Zip         string   `json:"zip"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Website     string   `json:"website"`
	Hours       Hours    `json:"hours"`
	Location    Location `json:"location"`
	// Reviews may be stale; the authoritative list is queried from the reviews collection.
	Reviews []string `json:"reviews"`
}

// Hours maps each weekday to free-text opening hours
type Hours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// Location represents geographical coordinates
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ClosedAllWeek returns opening hours with every day closed
func ClosedAllWeek() Hours {
	return Hours{
		Monday:    ClosedHours,
		Tuesday:   ClosedHours,
		Wednesday: ClosedHours,
		Thursday:  ClosedHours,
		Friday:    ClosedHours,
		Saturday:  ClosedHours,
		Sunday:    ClosedHours,
	}
}

// AvatarURL returns the generated initials avatar used when a business has no logo
func AvatarURL(name string) string {
	return "https://api.dicebear.com/7.x/initials/svg?seed=" + url.QueryEscape(name)
}

// DisplayLogo returns the logo or the generated avatar
func (b *Business) DisplayLogo() string {
	if b.Logo != "" {
		return b.Logo
	}
	return AvatarURL(b.Name)
}
