package domain

import "time"

// User mirrors an identity from the hosted auth provider. UserID is the
// provider's subject, so repeated syncs land on the same row.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	FullName     string    `json:"fullName" dynamodbav:"full_name"`
	AvatarURL    string    `json:"avatarUrl,omitempty" dynamodbav:"avatar_url"`
	Provider     string    `json:"provider" dynamodbav:"provider"` // "oauth" | "google"
	LastSignInAt time.Time `json:"lastSignInAt" dynamodbav:"last_sign_in_at"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// Identity is what an auth provider tells us about a signed-in user.
type Identity struct {
	Subject   string `json:"id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
	Provider  string `json:"provider"`
}
