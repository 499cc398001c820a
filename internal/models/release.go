package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Moderation states of a release.
const (
	StateWait    = "wait"
	StateResolve = "resolve"
	StateReject  = "reject"
)

// ReasonPendingReview is attached to every release entering the moderation
// queue so the author always sees why the entry is not public yet.
const ReasonPendingReview = "Awaiting review"

// Visibility values of the soft-delete flag.
const (
	DeleteStatusVisible = 1
	DeleteStatusDeleted = 0
)

// ValidState reports whether s is a known moderation state.
func ValidState(s string) bool {
	return s == StateWait || s == StateResolve || s == StateReject
}

// StringList stores a slice of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Release is a published travel diary entry.
type Release struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	ReleaseID    string     `gorm:"uniqueIndex;size:50;not null" json:"releaseId"`
	UserID       string     `gorm:"size:50;not null;index" json:"userId"`
	Title        string     `gorm:"size:100;not null" json:"title"`
	PlayTime     int        `json:"playTime"`
	Money        float64    `gorm:"type:decimal(10,2)" json:"money"`
	PersonNum    int        `json:"personNum"`
	Content      string     `gorm:"type:text" json:"content"`
	Pictures     StringList `gorm:"type:text" json:"pictures"`
	Videos       StringList `gorm:"type:text" json:"videos"`
	Cover        string     `json:"cover"`
	Location     string     `gorm:"size:100" json:"location"`
	State        string     `gorm:"size:20;default:wait;index" json:"state"`
	Reason       string     `json:"reason"`
	DeleteStatus int        `gorm:"default:1;index" json:"deleteStatus"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// Flattened author info and search provenance for API responses.
	UserName    string   `gorm:"-" json:"userName,omitempty"`
	Avatar      string   `gorm:"-" json:"avatar,omitempty"`
	MatchSource []string `gorm:"-" json:"matchSource,omitempty"`
}

// FlattenUser copies author display fields onto the release for responses.
func (r *Release) FlattenUser() {
	if r.User != nil {
		r.UserName = r.User.UserName
		r.Avatar = r.User.Avatar
	}
}
