package models

import "time"

// LocationValue is a per-language display name for a location.
type LocationValue struct {
	Language string `bson:"language" json:"language"`
	Value    string `bson:"value" json:"value"`
}

// Location is a pickup or drop-off point with localized names.
type Location struct {
	ID        string          `bson:"id" json:"id"`
	Values    []LocationValue `bson:"values" json:"values"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Name resolves the display name for the given language, falling back to the
// first value when the language has no entry.
func (l *Location) Name(language string) string {
	for _, v := range l.Values {
		if v.Language == language {
			return v.Value
		}
	}
	if len(l.Values) > 0 {
		return l.Values[0].Value
	}
	return ""
}

// PublicLocation is the trimmed, language-resolved projection embedded in
// listing rows.
type PublicLocation struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}
