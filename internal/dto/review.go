package dto

// SubmitReviewRequest is the raw, duck-typed review submission body. Fields
// are validated in a fixed order by the review service.
type SubmitReviewRequest struct {
	TeacherID      FlexID   `json:"teacher_id"`
	School         string   `json:"school"`
	Overall        FlexInt  `json:"overall"`
	Clarity        FlexInt  `json:"clarity"`
	Difficulty     FlexInt  `json:"difficulty"`
	WouldTakeAgain FlexBool `json:"would_take_again"`
	Comment        string   `json:"comment"`
}

// SubmitReviewResponse reports the stored identity and initial status.
type SubmitReviewResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
