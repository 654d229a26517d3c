package domain

import "time"

type Club struct {
	ClubID        string    `json:"id" dynamodbav:"club_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Description   string    `json:"description" dynamodbav:"description"`
	OfficialEmail string    `json:"officialEmail" dynamodbav:"official_email"`
	LogoURL       string    `json:"logoUrl,omitempty" dynamodbav:"logo_url"`
	OwnerID       string    `json:"ownerId" dynamodbav:"owner_id"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateClubRequest struct {
	Name          string `json:"name" validate:"required,singleline,max=120"`
	Description   string `json:"description" validate:"max=2000"`
	OfficialEmail string `json:"officialEmail" validate:"required,email"`
	LogoURL       string `json:"logoUrl" validate:"omitempty,url"`
}

type UpdateClubRequest struct {
	Name          *string `json:"name" validate:"omitempty,singleline,max=120"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	OfficialEmail *string `json:"officialEmail" validate:"omitempty,email"`
	LogoURL       *string `json:"logoUrl" validate:"omitempty,url"`
}
