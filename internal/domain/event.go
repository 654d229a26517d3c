package domain

import "time"

type Event struct {
	EventID     string    `json:"id" dynamodbav:"event_id"`
	ClubID      string    `json:"clubId" dynamodbav:"club_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	Location    string    `json:"location" dynamodbav:"location"`
	StartsAt    time.Time `json:"startsAt" dynamodbav:"starts_at,unixtime"`
	EndsAt      time.Time `json:"endsAt" dynamodbav:"ends_at,unixtime"`
	ImageURL    string    `json:"imageUrl,omitempty" dynamodbav:"image_url"`
	CreatedBy   string    `json:"createdBy" dynamodbav:"created_by"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"max=200"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	EndsAt      time.Time `json:"endsAt" validate:"required"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	ImageURL    *string    `json:"imageUrl" validate:"omitempty,url"`
}
