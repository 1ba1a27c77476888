package api

import (
	"time"

	"github.com/stridehq/stride/internal/models"
)

type UserView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TotalSteps int64  `json:"total_steps"`
	Connected  bool   `json:"fitness_connected"`
}

type StepRecordView struct {
	ID    uint   `json:"id"`
	Date  string `json:"date"`
	Steps int64  `json:"steps"`
}

func userView(user models.User) UserView {
	return UserView{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		TotalSteps: user.TotalSteps,
		Connected:  user.HasGoogleFit(),
	}
}

func userViews(users []models.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, userView(user))
	}
	return views
}

func stepRecordView(record models.StepRecord) StepRecordView {
	return StepRecordView{
		ID:    record.ID,
		Date:  record.Date.Format(time.DateOnly),
		Steps: record.Steps,
	}
}

func stepRecordViews(records []models.StepRecord) []StepRecordView {
	views := make([]StepRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, stepRecordView(record))
	}
	return views
}
