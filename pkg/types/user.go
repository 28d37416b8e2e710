package types

import "encoding/json"

// Timezone is the user's timezone. Older accounts report a plain IANA
// name string; newer ones report an object with offset components.
// Both shapes unmarshal into this type; marshalling always emits the
// narrow string form.
type Timezone struct {
	Name      string `json:"timezone,omitempty"`
	GMTString string `json:"gmt_string,omitempty"`
	Hours     int    `json:"hours,omitempty"`
	Minutes   int    `json:"minutes,omitempty"`
	IsDST     int    `json:"is_dst,omitempty"`
}

// UnmarshalJSON accepts either a bare string or the structured form.
func (tz *Timezone) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		tz.Name = name
		return nil
	}

	type alias Timezone
	var full alias
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*tz = Timezone(full)
	return nil
}

// MarshalJSON emits the narrow string form.
func (tz Timezone) MarshalJSON() ([]byte, error) {
	return json.Marshal(tz.Name)
}

// User is the authenticated account.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email,omitempty"`
	FullName       string    `json:"full_name,omitempty"`
	Timezone       *Timezone `json:"timezone,omitempty"`
	InboxProjectID string    `json:"inbox_project_id,omitempty"`
	StartPage      string    `json:"start_page,omitempty"`
	StartDay       int       `json:"start_day,omitempty"`
	DateFormat     int       `json:"date_format,omitempty"`
	TimeFormat     int       `json:"time_format,omitempty"`
	IsPremium      bool      `json:"is_premium,omitempty"`
}

// Location returns the user's IANA timezone name, or empty when unset.
func (u *User) Location() string {
	if u == nil || u.Timezone == nil {
		return ""
	}
	return u.Timezone.Name
}
