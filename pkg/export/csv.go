package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/edurate/edurate-api/internal/models"
)

var reviewHeaders = []string{
	"id", "teacher_id", "school", "overall", "clarity", "difficulty",
	"would_take_again", "comment", "status", "created_at",
}

// ReviewsCSV renders moderated reviews as CSV bytes for the admin download.
func ReviewsCSV(reviews []models.Review) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(reviewHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, r := range reviews {
		record := []string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.TeacherID, 10),
			r.School,
			strconv.Itoa(r.Overall),
			strconv.Itoa(r.Clarity),
			strconv.Itoa(r.Difficulty),
			strconv.FormatBool(r.WouldTakeAgain),
			r.Comment,
			string(r.Status),
			r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
