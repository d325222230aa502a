// Package models contains data structures for the application's domain models.
package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// UserType classifies a user's privilege level.
type UserType string

const (
	UserTypeUser      UserType = "user"
	UserTypeModerator UserType = "moderator"
	UserTypeAdmin     UserType = "admin"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeUser, UserTypeModerator, UserTypeAdmin:
		return true
	}
	return false
}

// Gender is an optional demographic attribute.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
)

// Valid reports whether g is a known gender value.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary:
		return true
	}
	return false
}

// UserStatus tracks account state. The empty string means "not yet decided"
// and is distinct from every enum value.
type UserStatus string

const (
	StatusPending  UserStatus = "pending"
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// Valid reports whether s is a known status value.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive:
		return true
	}
	return false
}

// emailPattern is an RFC-2822-lite check: quoted or dotted local part,
// followed by a bracketed IPv4 literal or a dotted domain with an
// alphabetic TLD of two or more characters.
var emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// User represents an account in the Posts.io application.
//
// Email and Password are excluded from the default read projection: finds
// that do not ask for them leave the fields zero-valued, and omitempty keeps
// them out of serialized output.
type User struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Username    string     `gorm:"uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password    string     `json:"password,omitempty"`
	DateCreated *time.Time `json:"dateCreated,omitempty"`
	Type        UserType   `gorm:"default:user" json:"type"`
	Gender      Gender     `json:"gender,omitempty"`
	Status      UserStatus `json:"status,omitempty"`
	Birthdate   *time.Time `json:"birthdate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Normalize trims whitespace and applies defaults prior to validation.
func (u *User) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	if u.Type == "" {
		u.Type = UserTypeUser
	}
}

// Validate checks required fields, the email format, and enum membership.
// Username/email uniqueness is enforced by the storage layer's unique
// indexes, not here.
func (u *User) Validate() error {
	if u.Username == "" {
		return NewValidationError("username is required")
	}
	if u.Email == "" {
		return NewValidationError("email is required")
	}
	if !emailPattern.MatchString(u.Email) {
		return NewValidationError(fmt.Sprintf("%s is not a valid email address.", u.Email))
	}
	if u.Password == "" && u.Status != StatusPending {
		return NewValidationError("password is required")
	}
	if !u.Type.Valid() {
		return NewValidationError(fmt.Sprintf("%s is not a valid user type", u.Type))
	}
	if u.Gender != "" && !u.Gender.Valid() {
		return NewValidationError(fmt.Sprintf("%s is not a valid gender", u.Gender))
	}
	if u.Status != "" && !u.Status.Valid() {
		return NewValidationError(fmt.Sprintf("%s is not a valid status", u.Status))
	}
	return nil
}

// Age returns the whole number of years between the user's birthdate and now.
// The second return value is false when no birthdate is set.
func (u *User) Age(now time.Time) (int, bool) {
	if u.Birthdate == nil {
		return 0, false
	}
	b := *u.Birthdate
	years := now.Year() - b.Year()
	anniversary := time.Date(now.Year(), b.Month(), b.Day(), b.Hour(), b.Minute(), b.Second(), b.Nanosecond(), now.Location())
	if now.Before(anniversary) {
		years--
	}
	return years, true
}

// MarshalJSON serializes the user together with the derived age attribute.
// Age is never persisted; it is recomputed from the wall clock on every
// serialization, so two reads at different times may disagree.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	out := struct {
		alias
		Age *int `json:"age,omitempty"`
	}{alias: alias(u)}
	if age, ok := u.Age(time.Now()); ok {
		out.Age = &age
	}
	return json.Marshal(out)
}

// SignupStat is one row of the per-month signup aggregation. Year and Month
// are nil for the group of users that have no dateCreated.
type SignupStat struct {
	Year    *int `json:"year"`
	Month   *int `json:"month"`
	NbUsers int  `json:"nbUsers"`
}
