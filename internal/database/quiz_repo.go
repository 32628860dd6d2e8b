package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/platewise/menuflow/internal/models"
)

var ErrQuizNotFound = errors.New("quiz question not found")

// CreateQuizQuestions bulk-inserts generated questions for a menu.
// Per-question failures are isolated; the successfully stored subset is
// returned alongside the first error encountered, if any.
func (db *DB) CreateQuizQuestions(ctx context.Context, questions []*models.QuizQuestion) ([]*models.QuizQuestion, error) {
	var stored []*models.QuizQuestion
	var firstErr error

	for _, q := range questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		saved := &models.QuizQuestion{}
		var savedOptions []byte
		err = db.Pool.QueryRow(ctx, `
			INSERT INTO quiz_questions (restaurant_id, menu_id, menu_item_id, prompt, options, correct_option)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, restaurant_id, menu_id, menu_item_id, prompt, options, correct_option, created_at
		`, q.RestaurantID, q.MenuID, q.MenuItemID, q.Prompt, optionsJSON, q.CorrectOption).Scan(
			&saved.ID, &saved.RestaurantID, &saved.MenuID, &saved.MenuItemID,
			&saved.Prompt, &savedOptions, &saved.CorrectOption, &saved.CreatedAt,
		)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := json.Unmarshal(savedOptions, &saved.Options); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stored = append(stored, saved)
	}

	return stored, firstErr
}

// ListQuizQuestions returns the stored questions for a menu
func (db *DB) ListQuizQuestions(ctx context.Context, menuID int) ([]*models.QuizQuestion, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, restaurant_id, menu_id, menu_item_id, prompt, options, correct_option, created_at
		FROM quiz_questions WHERE menu_id = $1 ORDER BY id
	`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*models.QuizQuestion
	for rows.Next() {
		q := &models.QuizQuestion{}
		var optionsJSON []byte
		if err := rows.Scan(
			&q.ID, &q.RestaurantID, &q.MenuID, &q.MenuItemID,
			&q.Prompt, &optionsJSON, &q.CorrectOption, &q.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("failed to decode quiz options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuizQuestionByID retrieves one question
func (db *DB) GetQuizQuestionByID(ctx context.Context, id int) (*models.QuizQuestion, error) {
	q := &models.QuizQuestion{}
	var optionsJSON []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT id, restaurant_id, menu_id, menu_item_id, prompt, options, correct_option, created_at
		FROM quiz_questions WHERE id = $1
	`, id).Scan(
		&q.ID, &q.RestaurantID, &q.MenuID, &q.MenuItemID,
		&q.Prompt, &optionsJSON, &q.CorrectOption, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
		return nil, fmt.Errorf("failed to decode quiz options: %w", err)
	}
	return q, nil
}

// DeleteQuizQuestions removes all questions for a menu
func (db *DB) DeleteQuizQuestions(ctx context.Context, menuID int) error {
	_, err := db.Pool.Exec(ctx, "DELETE FROM quiz_questions WHERE menu_id = $1", menuID)
	return err
}
