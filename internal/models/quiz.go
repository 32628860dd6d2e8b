package models

import (
	"time"
)

// QuizQuestion is one generated multiple-choice question about a menu
// item, used for staff training.
type QuizQuestion struct {
	ID            int       `json:"id"`
	RestaurantID  int       `json:"restaurant_id"`
	MenuID        int       `json:"menu_id"`
	MenuItemID    int       `json:"menu_item_id"`
	Prompt        string    `json:"prompt"`
	Options       []string  `json:"options"`
	CorrectOption int       `json:"-"` // never sent to quiz takers
	CreatedAt     time.Time `json:"created_at"`
}

// QuizAnswerRequest is the body for answering a question.
type QuizAnswerRequest struct {
	Option int `json:"option"`
}

// QuizAnswerResponse reports whether the chosen option was right.
type QuizAnswerResponse struct {
	Correct       bool `json:"correct"`
	CorrectOption int  `json:"correct_option"`
}
