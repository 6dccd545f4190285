package routes

import (
	"github.com/egresados/seguimiento-api/internal/app/controllers"
	"github.com/egresados/seguimiento-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Graduate   *controllers.GraduateController
	Workshop   *controllers.WorkshopController
	Enrollment *controllers.EnrollmentController
	Area       *controllers.AreaController
	Document   *controllers.DocumentController
	Survey     *controllers.SurveyController
	User       *controllers.UserController
	Report     *controllers.ReportController
}

// SetupRouter configures all application routes under /api
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Auth ---
	login := api.Group("/login")
	{
		login.POST("", c.Auth.Login)
		login.POST("/recuperar", c.Auth.RequestPasswordReset)
	}

	graduates := api.Group("/graduados")
	{
		graduates.GET("", c.Graduate.GetAllGraduates)
		graduates.POST("", c.Graduate.CreateGraduate)
		graduates.GET("/:id", c.Graduate.GetGraduateByID)
		graduates.PUT("/:id", c.Graduate.UpdateGraduate)
		graduates.DELETE("/:id", c.Graduate.DeleteGraduate)
		graduates.GET("/:id/inscripciones", c.Graduate.GetGraduateEnrollments)
	}

	api.GET("/catalogo", c.Workshop.GetCatalog)
	workshops := api.Group("/talleres")
	{
		workshops.GET("", c.Workshop.GetAllWorkshops)
		workshops.POST("", c.Workshop.CreateWorkshop)
		workshops.GET("/:id", c.Workshop.GetWorkshopByID)
		workshops.PUT("/:id", c.Workshop.UpdateWorkshop)
		workshops.DELETE("/:id", c.Workshop.DeleteWorkshop)
		workshops.POST("/:id/notificar", c.Workshop.NotifyWorkshop)
		workshops.GET("/:id/asistencias", c.Workshop.GetWorkshopAttendance)
	}

	enrollments := api.Group("/inscripciones")
	{
		enrollments.GET("", c.Enrollment.GetAllEnrollments)
		enrollments.POST("", c.Enrollment.CreateEnrollment)
		enrollments.PUT("/:id", c.Enrollment.UpdateEnrollment)
		enrollments.DELETE("/:id", c.Enrollment.DeleteEnrollment)
	}

	attendance := api.Group("/asistencias")
	{
		attendance.GET("", c.Enrollment.GetAttendance)
		attendance.POST("", c.Enrollment.UpsertAttendance)
		attendance.POST("/lote", c.Enrollment.UpsertAttendanceBatch)
		attendance.DELETE("/:id", c.Enrollment.DeleteAttendance)
	}

	areas := api.Group("/areas")
	{
		areas.GET("", c.Area.GetAllAreas)
		areas.POST("", c.Area.CreateArea)
		areas.PUT("/:id", c.Area.UpdateArea)
		areas.DELETE("/:id", c.Area.DeleteArea)
	}

	preferences := api.Group("/preferencias")
	{
		preferences.GET("/:graduadoId", c.Area.GetPreferences)
		preferences.POST("", c.Area.ReplacePreferences)
	}

	documents := api.Group("/documentos")
	{
		documents.GET("", c.Document.GetAllDocuments)
		documents.POST("", c.Document.CreateDocument)
		documents.POST("/archivo", c.Document.UploadDocument)
		documents.GET("/:id/url", c.Document.GetDocumentURL)
		documents.DELETE("/:id", c.Document.DeleteDocument)
	}

	surveys := api.Group("/encuestas")
	{
		surveys.GET("", c.Survey.GetAllSurveys)
		surveys.POST("", c.Survey.CreateSurvey)
		surveys.GET("/:id", c.Survey.GetSurveyByID)
		surveys.PUT("/:id", c.Survey.UpdateSurvey)
		surveys.DELETE("/:id", c.Survey.DeleteSurvey)
		surveys.POST("/:id/preguntas", c.Survey.AddQuestion)
		surveys.POST("/:id/respuestas", c.Survey.SubmitResponses)
		surveys.GET("/:id/respuestas", c.Survey.GetResponses)
		surveys.GET("/:id/resumen", c.Survey.GetSummary)
	}

	questions := api.Group("/preguntas")
	{
		questions.PUT("/:id", c.Survey.UpdateQuestion)
		questions.DELETE("/:id", c.Survey.DeleteQuestion)
	}

	// --- Profiles ---
	// /me is registered before /:id; gin gives static segments priority either way
	profiles := api.Group("/perfiles")
	{
		profiles.GET("/me", authMiddleware.Authenticated(), c.User.GetMe)
		profiles.GET("/:id", c.User.GetProfile)
		profiles.PUT("/:id", c.User.UpdateProfile)
	}

	// --- Admin only ---
	admin := api.Group("")
	admin.Use(authMiddleware.AdminRequired())
	{
		users := admin.Group("/usuarios")
		{
			users.GET("", c.User.GetAllUsers)
			users.POST("", c.User.CreateUser)
		}

		reports := admin.Group("/reportes")
		{
			reports.GET("/graduados-por-carrera", c.Report.GraduatesByProgram)
			reports.GET("/graduados-por-zona", c.Report.GraduatesByZone)
			reports.GET("/inscripciones-por-taller", c.Report.EnrollmentsByWorkshop)
			reports.GET("/asistencia-por-taller", c.Report.AttendanceByWorkshop)
			reports.GET("/resumen", c.Report.Overview)
		}
	}
}
