package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/models"
)

var ErrNotEnoughItems = errors.New("menu needs at least four items to generate a quiz")

// QuizService generates staff-training questions from a menu's stored
// items. Regenerating replaces the menu's previous quiz.
type QuizService struct {
	db   *database.DB
	rand *rand.Rand
}

// NewQuizService creates a new quiz service
func NewQuizService(db *database.DB, seed int64) *QuizService {
	return &QuizService{db: db, rand: rand.New(rand.NewSource(seed))}
}

// GenerateQuiz builds and persists up to maxQuestions questions for a
// menu. Items that cannot support any question are skipped.
func (s *QuizService) GenerateQuiz(ctx context.Context, restaurantID, menuID, maxQuestions int) ([]*models.QuizQuestion, error) {
	m, err := s.db.GetMenuByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if m.RestaurantID != restaurantID {
		return nil, database.ErrMenuNotFound
	}

	items, err := s.db.ListMenuItems(ctx, menuID)
	if err != nil {
		return nil, err
	}

	questions := s.buildQuestions(restaurantID, menuID, items, maxQuestions)
	if len(questions) == 0 {
		return nil, ErrNotEnoughItems
	}

	if err := s.db.DeleteQuizQuestions(ctx, menuID); err != nil {
		return nil, fmt.Errorf("failed to clear previous quiz: %w", err)
	}
	return s.db.CreateQuizQuestions(ctx, questions)
}

// CheckAnswer grades one submitted option against a stored question.
func (s *QuizService) CheckAnswer(ctx context.Context, restaurantID, questionID, option int) (*models.QuizAnswerResponse, error) {
	q, err := s.db.GetQuizQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.RestaurantID != restaurantID {
		return nil, database.ErrQuizNotFound
	}
	return &models.QuizAnswerResponse{
		Correct:       option == q.CorrectOption,
		CorrectOption: q.CorrectOption,
	}, nil
}

func (s *QuizService) buildQuestions(restaurantID, menuID int, items []*models.MenuItem, maxQuestions int) []*models.QuizQuestion {
	if len(items) < 4 {
		return nil
	}

	order := s.rand.Perm(len(items))
	var questions []*models.QuizQuestion
	for _, idx := range order {
		if len(questions) >= maxQuestions {
			break
		}
		item := items[idx]

		var q *models.QuizQuestion
		switch {
		case item.Price != nil:
			q = s.priceQuestion(item, items)
		case item.Description != nil && *item.Description != "":
			q = s.descriptionQuestion(item, items)
		case item.ItemType == models.ItemTypeWine && item.WineGrapeVariety != nil:
			q = s.grapeQuestion(item, items)
		}
		if q == nil {
			continue
		}
		q.RestaurantID = restaurantID
		q.MenuID = menuID
		q.MenuItemID = item.ID
		questions = append(questions, q)
	}
	return questions
}

func (s *QuizService) priceQuestion(item *models.MenuItem, items []*models.MenuItem) *models.QuizQuestion {
	correct := formatPrice(*item.Price)
	distractors := map[string]bool{}
	for _, other := range items {
		if other.ID == item.ID || other.Price == nil {
			continue
		}
		d := formatPrice(*other.Price)
		if d != correct {
			distractors[d] = true
		}
	}
	options := pickOptions(s.rand, correct, distractors)
	if options == nil {
		return nil
	}
	return &models.QuizQuestion{
		Prompt:        fmt.Sprintf("What is the price of %s?", item.Name),
		Options:       options,
		CorrectOption: indexOf(options, correct),
	}
}

func (s *QuizService) descriptionQuestion(item *models.MenuItem, items []*models.MenuItem) *models.QuizQuestion {
	distractors := map[string]bool{}
	for _, other := range items {
		if other.ID != item.ID && other.Name != item.Name {
			distractors[other.Name] = true
		}
	}
	options := pickOptions(s.rand, item.Name, distractors)
	if options == nil {
		return nil
	}
	return &models.QuizQuestion{
		Prompt:        fmt.Sprintf("Which item is described as: %q?", *item.Description),
		Options:       options,
		CorrectOption: indexOf(options, item.Name),
	}
}

func (s *QuizService) grapeQuestion(item *models.MenuItem, items []*models.MenuItem) *models.QuizQuestion {
	correct := *item.WineGrapeVariety
	distractors := map[string]bool{}
	for _, other := range items {
		if other.ID == item.ID || other.WineGrapeVariety == nil {
			continue
		}
		if *other.WineGrapeVariety != correct {
			distractors[*other.WineGrapeVariety] = true
		}
	}
	options := pickOptions(s.rand, correct, distractors)
	if options == nil {
		return nil
	}
	return &models.QuizQuestion{
		Prompt:        fmt.Sprintf("Which grape variety is %s made from?", item.Name),
		Options:       options,
		CorrectOption: indexOf(options, correct),
	}
}

// pickOptions assembles four shuffled options around the correct
// answer, or nil when the menu cannot supply three distractors.
func pickOptions(r *rand.Rand, correct string, distractors map[string]bool) []string {
	if len(distractors) < 3 {
		return nil
	}
	pool := make([]string, 0, len(distractors))
	for d := range distractors {
		pool = append(pool, d)
	}
	// Map iteration order is random but not seeded; sort first so the
	// same seed always yields the same quiz.
	sort.Strings(pool)
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	options := append([]string{correct}, pool[:3]...)
	r.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

func indexOf(options []string, value string) int {
	for i, o := range options {
		if o == value {
			return i
		}
	}
	return 0
}

func formatPrice(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', 2, 64)
}
