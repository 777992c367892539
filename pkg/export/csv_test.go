package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edurate/edurate-api/internal/models"
)

func TestReviewsCSV(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	payload, err := ReviewsCSV([]models.Review{
		{
			ID: 1, TeacherID: 7, School: "Central High",
			Overall: 5, Clarity: 4, Difficulty: 2,
			WouldTakeAgain: true, Comment: `said "great", would retake`,
			Status: models.ReviewApproved, CreatedAt: created,
		},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, reviewHeaders, records[0])
	assert.Equal(t, []string{
		"1", "7", "Central High", "5", "4", "2", "true",
		`said "great", would retake`, "approved", "2026-03-01T09:30:00Z",
	}, records[1])
}

func TestReviewsCSVEmpty(t *testing.T) {
	payload, err := ReviewsCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, reviewHeaders, records[0])
}
