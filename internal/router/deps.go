package router

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/repository"
	"github.com/noah-isme/sams-api/internal/service"
	"github.com/noah-isme/sams-api/internal/validation"
	"github.com/noah-isme/sams-api/pkg/config"
	"github.com/noah-isme/sams-api/pkg/storage"
)

// NewDeps builds repositories and services over the given infrastructure.
// redisClient may be nil, in which case caching, revocation and rate
// limiting are disabled.
func NewDeps(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, exports *storage.LocalStorage, logger *zap.Logger) Deps {
	if logger == nil {
		logger = zap.NewNop()
	}

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	assignedRepo := repository.NewAssignedSubjectRepository(db)
	classRepo := repository.NewClassRepository(db)
	timetableRepo := repository.NewTimeTableRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logger)
	tokenRepo := repository.NewTokenRepository(redisClient)

	validate := validation.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logger, cfg.Cache.Enabled && redisClient != nil)
	scopeSvc := service.NewScopeService(departmentRepo, subjectRepo, logger)

	authSvc := service.NewAuthService(userRepo, tokenRepo, validate, logger, service.AuthConfig{
		Secret:          cfg.JWT.Secret,
		Issuer:          cfg.JWT.Issuer,
		Expiration:      cfg.JWT.Expiration,
		RenewExpiration: cfg.JWT.RenewExpiration,
		AllowedRoles:    registrationRoles(cfg.Registration.AllowedRoles, logger),
	})

	auditSvc := service.NewAuditService(auditRepo, service.AuditConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
	}, metrics, logger)

	return Deps{
		Config:  cfg,
		Logger:  logger,
		Limiter: cacheRepo,
		DB:      db,
		Services: Services{
			Auth:       authSvc,
			Users:      service.NewUserService(userRepo, validate, logger),
			Scope:      scopeSvc,
			Subjects:   service.NewSubjectService(subjectRepo, assignedRepo, userRepo, cacheSvc, validate, logger),
			Classes:    service.NewClassService(classRepo, validate, logger),
			TimeTables: service.NewTimeTableService(timetableRepo, classRepo, assignedRepo, subjectRepo, nil, validate, logger),
			Attendance: service.NewAttendanceService(attendanceRepo, subjectRepo, scopeSvc, exports, metrics, validate, logger, service.AttendanceConfig{ExportTTL: cfg.Export.TTL}),
			Department: service.NewDepartmentService(departmentRepo, userRepo, validate, logger),
			Audit:      auditSvc,
			Metrics:    metrics,
		},
	}
}

func registrationRoles(raw []string, logger *zap.Logger) []models.UserRole {
	roles := make([]models.UserRole, 0, len(raw))
	for _, r := range raw {
		role := models.UserRole(r)
		if !role.Valid() {
			logger.Warn("ignoring unknown registration role", zap.String("role", r))
			continue
		}
		roles = append(roles, role)
	}
	return roles
}
