package dto

// AdminRequest is the base shape of every moderation call: the shared secret
// travels in the body, not in a header, because the admin console posts it as
// part of the form payload.
type AdminRequest struct {
	Token string `json:"token" validate:"required"`
}

// PendingRequest lists the moderation queue.
type PendingRequest struct {
	Token string `json:"token" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1"`
}

// TransitionRequest approves or rejects one pending review.
type TransitionRequest struct {
	Token string `json:"token" validate:"required"`
	ID    FlexID `json:"id"`
}

// ExportRequest streams moderated reviews as CSV.
type ExportRequest struct {
	Token  string `json:"token" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}
