// Package router assembles the gin engine: global middleware, the auth
// gate and the route table.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/handler"
	"github.com/noah-isme/sams-api/internal/middleware"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/service"
	"github.com/noah-isme/sams-api/pkg/config"
	"github.com/noah-isme/sams-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sams-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sams-api/pkg/middleware/requestid"
)

// Services groups everything the routes call into.
type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Scope      *service.ScopeService
	Subjects   *service.SubjectService
	Classes    *service.ClassService
	TimeTables *service.TimeTableService
	Attendance *service.AttendanceService
	Department *service.DepartmentService
	Audit      *service.AuditService
	Metrics    *service.MetricsService
}

// Deps carries configuration and infrastructure used while routing.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Limiter  middleware.Limiter
	DB       handler.Pinger
	Services Services
}

// New builds the engine serving every SAMS endpoint.
func New(d Deps) *gin.Engine {
	cfg := d.Config
	svc := d.Services

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.Logger))
	r.Use(middleware.Metrics(svc.Metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, cfg.JWT.RenewTokenHeader))

	metricsHandler := handler.NewMetricsHandler(svc.Metrics.Handler(), d.DB)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(svc.Auth, svc.Users)
	attendanceHandler := handler.NewAttendanceHandler(svc.Attendance)
	subjectHandler := handler.NewSubjectHandler(svc.Subjects)
	classHandler := handler.NewClassHandler(svc.Classes)
	timetableHandler := handler.NewTimeTableHandler(svc.TimeTables)
	departmentHandler := handler.NewDepartmentHandler(svc.Department)
	userHandler := handler.NewUserHandler(svc.Users)

	var limiter gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled && d.Limiter != nil {
		limiter = middleware.RateLimit(d.Limiter, "auth", cfg.RateLimit.Limit, cfg.RateLimit.Window, d.Logger)
	}

	renew := middleware.RenewToken(svc.Auth, cfg.JWT.RenewTokenHeader)
	authed := func(roles ...models.UserRole) gin.HandlersChain {
		return gin.HandlersChain{middleware.Auth(svc.Auth, roles...), renew}
	}
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(svc.Audit, action, resource)
	}
	scopeBody := middleware.ScopeFromBody(svc.Scope)
	scopeSubjectBody := middleware.ScopeFromSubject(svc.Scope, "")
	scopeSubjectParam := middleware.ScopeFromSubject(svc.Scope, "id")

	staff := []models.UserRole{models.RoleAdmin, models.RoleHOD, models.RoleFaculty, models.RoleClassCoordinator}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", limiter, audit(models.AuditActionRegister, "user"), authHandler.Register)
	auth.POST("/login", limiter, audit(models.AuditActionLogin, "auth"), authHandler.Login)
	auth.GET("/me", with(authed(), authHandler.Me)...)
	auth.POST("/logout", with(authed(), audit(models.AuditActionLogout, "auth"), authHandler.Logout)...)

	attendance := api.Group("/attendance")
	attendance.GET("/attendancebySubject", with(authed(), attendanceHandler.BySubject)...)
	attendance.POST("/mark", with(authed(), scopeBody, audit(models.AuditActionAttendanceMark, "attendance"), attendanceHandler.Mark)...)
	attendance.POST("/sync", with(authed(), audit(models.AuditActionAttendanceSync, "attendance"), attendanceHandler.Sync)...)
	attendance.GET("/records", with(authed(staff...), attendanceHandler.Records)...)
	attendance.GET("/analytics", with(authed(), attendanceHandler.Analytics)...)
	attendance.GET("/export", with(authed(models.RoleAdmin, models.RoleHOD, models.RoleFaculty), attendanceHandler.Export)...)

	subject := api.Group("/subject")
	subject.GET("/subjects", with(authed(), subjectHandler.List)...)
	subject.GET("/assigned", with(authed(), subjectHandler.ListAssigned)...)
	subject.POST("/addSubject", with(authed(models.RoleHOD), scopeBody, audit(models.AuditActionSubjectCreate, "subject"), subjectHandler.Create)...)
	subject.POST("/assignSubject", with(authed(models.RoleHOD, models.RoleAdmin), scopeSubjectBody, audit(models.AuditActionSubjectAssign, "assigned_subject"), subjectHandler.Assign)...)
	subject.DELETE("/:id", with(authed(models.RoleHOD, models.RoleAdmin), scopeSubjectParam, audit(models.AuditActionSubjectDelete, "subject"), subjectHandler.Delete)...)

	class := api.Group("/class")
	class.GET("/classDetails", with(authed(models.RoleAdmin, models.RoleHOD, models.RoleClassCoordinator), classHandler.Details)...)
	class.POST("/newClass", with(authed(models.RoleAdmin, models.RoleHOD), scopeBody, audit(models.AuditActionClassCreate, "class"), classHandler.Create)...)
	class.POST("/:id/students", with(authed(models.RoleAdmin, models.RoleHOD, models.RoleClassCoordinator), audit(models.AuditActionClassStudents, "class"), classHandler.AddStudents)...)

	timetable := api.Group("/timetable")
	timetable.POST("", with(authed(models.RoleAdmin, models.RoleHOD, models.RoleClassCoordinator), audit(models.AuditActionTimeTableReplace, "timetable"), timetableHandler.Replace)...)
	timetable.GET("/:classId", with(authed(), timetableHandler.Get)...)
	timetable.GET("/:classId/ics", with(authed(), timetableHandler.Calendar)...)

	department := api.Group("/department")
	department.POST("/assign", with(authed(models.RoleAdmin), audit(models.AuditActionDepartmentAssign, "department_assignment"), departmentHandler.Assign)...)
	department.GET("/assignments", with(authed(models.RoleAdmin), departmentHandler.List)...)
	department.GET("/me", with(authed(models.RoleHOD), departmentHandler.Mine)...)

	directory := api.Group("/getData")
	directory.GET("/students", with(authed(models.RoleAdmin, models.RoleHOD, models.RoleFaculty), userHandler.Students)...)
	directory.GET("/faculty", with(authed(models.RoleAdmin, models.RoleHOD), userHandler.Faculty)...)

	return r
}

func with(chain gin.HandlersChain, handlers ...gin.HandlerFunc) gin.HandlersChain {
	out := make(gin.HandlersChain, 0, len(chain)+len(handlers))
	out = append(out, chain...)
	return append(out, handlers...)
}
