package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/services"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const AdminKeyHeader = "X-Admin-Key"

// Services bundles what the HTTP layer calls into
type Services struct {
	Quiz     services.QuizService
	Question services.QuestionService
	Session  services.SessionService
	Export   services.ExportService
}

type HandlerManager struct {
	quizHandler     *QuizHandler
	questionHandler *QuestionHandler
	sessionHandler  *SessionHandler
	adminKey        string
}

func NewHandlerManager(svc Services, adminKey string, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		quizHandler:     NewQuizHandler(svc.Quiz, svc.Export, logger),
		questionHandler: NewQuestionHandler(svc.Question, logger),
		sessionHandler:  NewSessionHandler(svc.Session, logger),
		adminKey:        adminKey,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", hm.quizHandler.CreateQuiz)
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.PUT("/:id", hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", hm.quizHandler.DeleteQuiz)
			quizzes.PUT("/:id/modes", hm.quizHandler.SetQuizModes)

			// Results
			quizzes.GET("/:id/results/stats", hm.quizHandler.GetQuizResultStats)
			quizzes.GET("/:id/results/export", hm.quizHandler.ExportQuizResults)
		}

		modes := v1.Group("/modes")
		{
			modes.POST("", hm.quizHandler.CreateMode)
			modes.GET("", hm.quizHandler.ListModes)
		}

		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
		}

		v1.POST("/scoring/evaluate", hm.questionHandler.EvaluateAnswer)

		// Participant flow, addressed by session token
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.POST("/:token/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:token/complete", hm.sessionHandler.CompleteSession)
			sessions.GET("/:token/result", hm.sessionHandler.GetSessionResult)
		}

		admin := v1.Group("/admin", AdminMiddleware(hm.adminKey))
		{
			admin.POST("/sessions/:id/regrade", hm.sessionHandler.RegradeSession)
			admin.GET("/sessions/:id/regrades", hm.sessionHandler.GetRegradeHistory)
		}
	}
}

// AdminMiddleware requires the configured key in X-Admin-Key. An empty key
// disables the check.
func AdminMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(AdminKeyHeader)), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Admin key required",
			})
			return
		}
		c.Next()
	}
}
