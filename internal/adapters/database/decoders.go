package database

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
)

// Raw record shapes. Pointer fields distinguish absent values from zero values.
type rawBusiness struct {
	Name        *string      `mapstructure:"name"`
	Category    *string      `mapstructure:"category"`
	Description *string      `mapstructure:"description"`
	Rating      *float64     `mapstructure:"rating"`
	Logo        *string      `mapstructure:"logo"`
	Address     *string      `mapstructure:"address"`
	City        *string      `mapstructure:"city"`
	State       *string      `mapstructure:"state"`
	Zip         *string      `mapstructure:"zip"`
	Phone       *string      `mapstructure:"phone"`
	Email       *string      `mapstructure:"email"`
	Website     *string      `mapstructure:"website"`
	Hours       *rawHours    `mapstructure:"hours"`
	Location    *rawLocation `mapstructure:"location"`
	Reviews     []any        `mapstructure:"reviews"`
}

type rawHours struct {
	Monday    *string `mapstructure:"monday"`
	Tuesday   *string `mapstructure:"tuesday"`
	Wednesday *string `mapstructure:"wednesday"`
	Thursday  *string `mapstructure:"thursday"`
	Friday    *string `mapstructure:"friday"`
	Saturday  *string `mapstructure:"saturday"`
	Sunday    *string `mapstructure:"sunday"`
}

type rawLocation struct {
	Lat *float64 `mapstructure:"lat"`
	Lng *float64 `mapstructure:"lng"`
}

type rawReview struct {
	BusinessID *string  `mapstructure:"businessId"`
	UserID     *string  `mapstructure:"userId"`
	UserName   *string  `mapstructure:"userName"`
	Rating     *float64 `mapstructure:"rating"`
	Comment    *string  `mapstructure:"comment"`
	Date       any      `mapstructure:"date"`
}

type rawFavorite struct {
	UserID     *string `mapstructure:"userId"`
	BusinessID *string `mapstructure:"businessId"`
	CreatedAt  any     `mapstructure:"createdAt"`
}

type rawAccount struct {
	Email        *string `mapstructure:"email"`
	DisplayName  *string `mapstructure:"displayName"`
	PasswordHash *string `mapstructure:"passwordHash"`
	Disabled     *bool   `mapstructure:"disabled"`
	CreatedAt    any     `mapstructure:"createdAt"`
	UpdatedAt    any     `mapstructure:"updatedAt"`
}

func decodeRaw(doc *providers.Document, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(doc.Data); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// DecodeBusiness parses a stored record into a Business with every absent field defaulted
func DecodeBusiness(doc *providers.Document) (*entities.Business, error) {
	var raw rawBusiness
	if err := decodeRaw(doc, &raw); err != nil {
		return nil, err
	}

	business := &entities.Business{
		ID:          doc.ID,
		Name:        stringOr(raw.Name, ""),
		Category:    stringOr(raw.Category, entities.DefaultCategory),
		Description: stringOr(raw.Description, ""),
		Rating:      floatOr(raw.Rating, 0),
		Logo:        stringOr(raw.Logo, ""),
		Address:     stringOr(raw.Address, ""),
		City:        stringOr(raw.City, ""),
		State:       stringOr(raw.State, ""),
		Zip:         stringOr(raw.Zip, ""),
		Phone:       stringOr(raw.Phone, ""),
		Email:       stringOr(raw.Email, ""),
		Website:     stringOr(raw.Website, ""),
		Hours:       entities.ClosedAllWeek(),
		Reviews:     reviewIDs(raw.Reviews),
	}
	business.Logo = business.DisplayLogo()

	if h := raw.Hours; h != nil {
		closed := entities.ClosedHours
		business.Hours = entities.Hours{
			Monday:    stringOr(h.Monday, closed),
			Tuesday:   stringOr(h.Tuesday, closed),
			Wednesday: stringOr(h.Wednesday, closed),
			Thursday:  stringOr(h.Thursday, closed),
			Friday:    stringOr(h.Friday, closed),
			Saturday:  stringOr(h.Saturday, closed),
			Sunday:    stringOr(h.Sunday, closed),
		}
	}
	if l := raw.Location; l != nil {
		business.Location = entities.Location{Lat: floatOr(l.Lat, 0), Lng: floatOr(l.Lng, 0)}
	}

	return business, nil
}

// reviewIDs accepts either review ids or embedded review objects carrying an id
func reviewIDs(values []any) []string {
	ids := make([]string, 0, len(values))
	for _, v := range values {
		switch r := v.(type) {
		case string:
			ids = append(ids, r)
		case map[string]any:
			if id, ok := r["id"].(string); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// DecodeReview parses a stored record into a Review. Unreadable dates become now.
func DecodeReview(doc *providers.Document, now time.Time) (*entities.Review, error) {
	var raw rawReview
	if err := decodeRaw(doc, &raw); err != nil {
		return nil, err
	}

	date, ok := parseTime(raw.Date)
	if !ok {
		date = now
	}

	return &entities.Review{
		ID:         doc.ID,
		BusinessID: stringOr(raw.BusinessID, ""),
		UserID:     stringOr(raw.UserID, ""),
		UserName:   stringOr(raw.UserName, entities.AnonymousReviewer),
		Rating:     int(math.Round(floatOr(raw.Rating, 0))),
		Comment:    stringOr(raw.Comment, ""),
		Date:       date,
	}, nil
}

// DecodeFavorite parses a stored favorite record
func DecodeFavorite(doc *providers.Document) (*entities.Favorite, error) {
	var raw rawFavorite
	if err := decodeRaw(doc, &raw); err != nil {
		return nil, err
	}

	createdAt, ok := parseTime(raw.CreatedAt)
	if !ok {
		createdAt = doc.CreatedAt
	}

	return &entities.Favorite{
		ID:         doc.ID,
		UserID:     stringOr(raw.UserID, ""),
		BusinessID: stringOr(raw.BusinessID, ""),
		CreatedAt:  createdAt,
	}, nil
}

// DecodeAccount parses a stored identity account
func DecodeAccount(doc *providers.Document) (*entities.Account, error) {
	var raw rawAccount
	if err := decodeRaw(doc, &raw); err != nil {
		return nil, err
	}
	if raw.Email == nil || raw.PasswordHash == nil {
		return nil, fmt.Errorf("decode account %s: missing email or password hash", doc.ID)
	}

	account := &entities.Account{
		ID:           doc.ID,
		Email:        *raw.Email,
		DisplayName:  stringOr(raw.DisplayName, ""),
		PasswordHash: *raw.PasswordHash,
		Disabled:     raw.Disabled != nil && *raw.Disabled,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	if t, ok := parseTime(raw.CreatedAt); ok {
		account.CreatedAt = t
	}
	if t, ok := parseTime(raw.UpdatedAt); ok {
		account.UpdatedAt = t
	}
	return account, nil
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

// encodeRecord converts an entity into a stored record using its JSON field names
func encodeRecord(v any, drop ...string) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	for _, key := range drop {
		delete(record, key)
	}
	return record, nil
}
