package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

type quizAPI struct {
	catalog *app.QuizCatalog
	exams   *app.ExamService
}

// list shows teachers the full quiz set; students get the questions without answers.
func (api quizAPI) list(c echo.Context) error {
	ctx := c.Request().Context()
	if profileOf(c).Role == domain.RoleTeacher {
		quizzes, err := api.catalog.List(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, quizzes)
	}
	questions, err := api.catalog.ListQuestions(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questions)
}

func (api quizAPI) create(c echo.Context) error {
	var in domain.QuizInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	quiz, err := api.catalog.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, quiz)
}

func (api quizAPI) update(c echo.Context) error {
	var patch domain.QuizPatch
	if err := c.Bind(&patch); err != nil {
		return err
	}
	quiz, err := api.catalog.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quiz)
}

func (api quizAPI) delete(c echo.Context) error {
	if err := api.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// attempts lists every student's marks, flagging students who are mid-exam.
func (api quizAPI) attempts(c echo.Context) error {
	ctx := c.Request().Context()
	attempts, err := api.catalog.Attempts(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, api.exams.Roster(ctx, attempts))
}

func (api quizAPI) myAttempts(c echo.Context) error {
	attempts, err := api.catalog.AttemptsOf(c.Request().Context(), principalOf(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attempts)
}
