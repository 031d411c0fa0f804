package model

import "database/sql"

// Subscription tiers that a user account can be on.
const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

// Contact is the data structure for a person in the contact book.
type Contact struct {
	Id       int64  `json:"id"       db:"id"`
	Name     string `json:"name"     db:"name"`
	Email    string `json:"email"    db:"email"`
	Phone    string `json:"phone"    db:"phone"`
	Favorite bool   `json:"favorite" db:"favorite"`
}

// User is the data structure for a registered account. The password hash and
// the session token are never serialized into HTTP responses. The
// verification token becomes NULL once the account has been verified.
type User struct {
	Id                int64          `json:"id"           db:"id"`
	Email             string         `json:"email"        db:"email"`
	Password          string         `json:"-"            db:"password"`
	Subscription      string         `json:"subscription" db:"subscription"`
	AvatarURL         string         `json:"avatarURL"    db:"avatar_url"`
	Token             string         `json:"-"            db:"token"`
	Verify            bool           `json:"verify"       db:"verify"`
	VerificationToken sql.NullString `json:"-"            db:"verification_token"`
}
