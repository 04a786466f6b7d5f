package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

// Services are the use cases the HTTP surface exposes.
type Services struct {
	Accounts  *app.Accounts
	Catalog   *app.QuizCatalog
	Materials *app.Materials
	Exams     *app.ExamService
}

// NewRouter builds the REST API and the exam WebSocket endpoint.
func NewRouter(svc Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	acc := accountAPI{accounts: svc.Accounts}
	quiz := quizAPI{catalog: svc.Catalog, exams: svc.Exams}
	mat := materialAPI{materials: svc.Materials}
	exam := NewExamHandler(svc.Exams)

	authed := authenticate(svc.Accounts)
	anyRole := requireRole(svc.Accounts)
	teacher := requireRole(svc.Accounts, domain.RoleTeacher)
	student := requireRole(svc.Accounts, domain.RoleStudent)

	e.POST("/auth/register", acc.register)
	e.POST("/auth/login", acc.login)
	e.POST("/auth/logout", acc.logout, authed)

	e.GET("/me", acc.profile, authed)
	e.PUT("/me", acc.completeProfile, authed)
	e.GET("/me/navigation", acc.navigation, authed)
	e.GET("/me/attempts", quiz.myAttempts, authed, student)
	e.GET("/me/saved", mat.listSaved, authed, student)
	e.DELETE("/me/saved/:id", mat.deleteSaved, authed, student)

	e.GET("/quizzes", quiz.list, authed, anyRole)
	e.POST("/quizzes", quiz.create, authed, teacher)
	e.PATCH("/quizzes/:id", quiz.update, authed, teacher)
	e.DELETE("/quizzes/:id", quiz.delete, authed, teacher)
	e.GET("/attempts", quiz.attempts, authed, teacher)

	e.GET("/materials", mat.browse, authed, student)
	e.GET("/materials/mine", mat.listOwn, authed, teacher)
	e.POST("/materials", mat.publish, authed, teacher)
	e.PUT("/materials/:id", mat.update, authed, teacher)
	e.DELETE("/materials/:id", mat.delete, authed, teacher)
	e.POST("/materials/:id/save", mat.save, authed, student)

	e.GET("/ws/exam", exam.ServeWS, authed, student)
	return e
}
