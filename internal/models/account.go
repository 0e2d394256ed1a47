// Package models holds the persisted records: accounts, catalog movie
// summaries and user-movie rating associations.
package models

// Account is a registered user.
//
// Email is stored lowercase. Password holds whatever the configured hasher
// produced: plaintext by default, an encoded argon2id hash otherwise.
type Account struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	ProfileImage *string `json:"profileImage,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// WithProfileImage returns a copy of a with ProfileImage set to uri.
func (a Account) WithProfileImage(uri string) Account {
	a.ProfileImage = &uri
	return a
}
