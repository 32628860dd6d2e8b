package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/menuflow/internal/models"
)

func quizItem(id int, name string, price float64, description string) *models.MenuItem {
	item := &models.MenuItem{
		ID:       id,
		Name:     name,
		Price:    &price,
		ItemType: models.ItemTypeFood,
	}
	if description != "" {
		item.Description = &description
	}
	return item
}

func trainingItems() []*models.MenuItem {
	return []*models.MenuItem{
		quizItem(1, "Truffle Fries", 12.50, "hand cut with parmesan"),
		quizItem(2, "Burrata", 14.00, "with heirloom tomatoes"),
		quizItem(3, "Margherita Pizza", 18.00, ""),
		quizItem(4, "Duck Confit", 29.00, "crispy leg with lentils"),
		quizItem(5, "Creme Brulee", 11.00, ""),
	}
}

func TestBuildQuestionsCorrectOptionPoints(t *testing.T) {
	s := NewQuizService(nil, 7)

	questions := s.buildQuestions(3, 12, trainingItems(), 10)
	require.NotEmpty(t, questions)

	for _, q := range questions {
		require.Len(t, q.Options, 4)
		require.GreaterOrEqual(t, q.CorrectOption, 0)
		require.Less(t, q.CorrectOption, len(q.Options))
		assert.Equal(t, 3, q.RestaurantID)
		assert.Equal(t, 12, q.MenuID)
	}
}

func TestBuildQuestionsDeterministicSeed(t *testing.T) {
	first := NewQuizService(nil, 42).buildQuestions(1, 1, trainingItems(), 10)
	second := NewQuizService(nil, 42).buildQuestions(1, 1, trainingItems(), 10)

	require.Equal(t, first, second)
}

func TestBuildQuestionsRespectsLimit(t *testing.T) {
	s := NewQuizService(nil, 7)

	questions := s.buildQuestions(1, 1, trainingItems(), 2)
	assert.Len(t, questions, 2)
}

func TestBuildQuestionsNeedsFourItems(t *testing.T) {
	s := NewQuizService(nil, 7)

	questions := s.buildQuestions(1, 1, trainingItems()[:3], 10)
	assert.Nil(t, questions)
}

func TestPickOptionsNeedsThreeDistractors(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	assert.Nil(t, pickOptions(r, "$10.00", map[string]bool{"$11.00": true, "$12.00": true}))

	options := pickOptions(r, "$10.00", map[string]bool{
		"$11.00": true, "$12.00": true, "$13.00": true, "$14.00": true,
	})
	require.Len(t, options, 4)
	assert.Contains(t, options, "$10.00")
}
