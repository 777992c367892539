package models

import "time"

// ReviewStatus is write-once-forward: a review is born pending and moves at
// most once into one of the two terminal states.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known status value.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// Review is a visitor-submitted rating. School is the rater's free-text
// snapshot and deliberately independent of the teacher's school column.
type Review struct {
	ID             int64        `db:"id" json:"id"`
	TeacherID      int64        `db:"teacher_id" json:"teacher_id"`
	School         string       `db:"school" json:"school"`
	Overall        int          `db:"overall" json:"overall"`
	Clarity        int          `db:"clarity" json:"clarity"`
	Difficulty     int          `db:"difficulty" json:"difficulty"`
	WouldTakeAgain bool         `db:"would_take_again" json:"would_take_again"`
	Comment        string       `db:"comment" json:"comment"`
	Status         ReviewStatus `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// PendingReview is a moderation-queue row. TeacherName carries left-join
// semantics: a dangling teacher reference surfaces as null, not as a missing
// row.
type PendingReview struct {
	Review
	TeacherName *string `db:"teacher_name" json:"teacher_name"`
}
