package dynamo

// DynamoDB attribute names used in hand-written expressions.
const (
	fieldStatus        = "status"
	fieldExpiresAt     = "expires_at"
	fieldUsedAt        = "used_at"
	fieldCode          = "code"
	fieldOTPID         = "otp_id"
	fieldClubID        = "club_id"
	fieldEventID       = "event_id"
	fieldStartsAt      = "starts_at"
	fieldEndsAt        = "ends_at"
	fieldPin           = "pin"
	fieldOfficialEmail = "official_email"
	fieldCreatedAt     = "created_at"
	fieldUpdatedAt     = "updated_at"
)
