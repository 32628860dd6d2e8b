package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/services"
)

const defaultQuizSize = 10

type generateQuizRequest struct {
	MaxQuestions int `json:"max_questions,omitempty"`
}

// GenerateQuiz builds a fresh training quiz from a menu's items,
// replacing any previous quiz for that menu.
func (h *Handler) GenerateQuiz(c *fiber.Ctx) error {
	m, errResp := h.requireMenu(c)
	if errResp != nil {
		return errResp
	}

	var req generateQuizRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if req.MaxQuestions <= 0 {
		req.MaxQuestions = defaultQuizSize
	}

	questions, err := h.quizzes.GenerateQuiz(c.Context(), m.RestaurantID, m.ID, req.MaxQuestions)
	if err != nil {
		if errors.Is(err, services.ErrNotEnoughItems) {
			return Error(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		if errors.Is(err, database.ErrMenuNotFound) {
			return Error(c, fiber.StatusNotFound, "menu not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to generate quiz")
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    questions,
		Meta:    &Meta{Total: len(questions)},
	})
}

// ListQuizQuestions returns a menu's quiz without the answer key
func (h *Handler) ListQuizQuestions(c *fiber.Ctx) error {
	m, errResp := h.requireMenu(c)
	if errResp != nil {
		return errResp
	}

	questions, err := h.db.ListQuizQuestions(c.Context(), m.ID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list questions")
	}
	return SuccessWithMeta(c, questions, len(questions))
}

type quizAnswerRequest struct {
	Option int `json:"option"`
}

// AnswerQuizQuestion grades one submitted answer
func (h *Handler) AnswerQuizQuestion(c *fiber.Ctx) error {
	m, errResp := h.requireMenu(c)
	if errResp != nil {
		return errResp
	}

	questionID, err := c.ParamsInt("questionId")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid question id")
	}

	var req quizAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.quizzes.CheckAnswer(c.Context(), m.RestaurantID, questionID, req.Option)
	if err != nil {
		if errors.Is(err, database.ErrQuizNotFound) {
			return Error(c, fiber.StatusNotFound, "question not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to grade answer")
	}
	return Success(c, resp)
}
