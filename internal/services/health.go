package services

import (
	"fmt"
	"time"

	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/utils"
	"gorm.io/gorm"
)

const integrationPingTimeout = 3 * time.Second

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status         string            `json:"status"`
	Database       string            `json:"database"`
	Mail           string            `json:"mail"`
	Storage        string            `json:"storage"`
	PollIntervalMS int               `json:"pollIntervalMs"`
	Details        map[string]string `json:"details,omitempty"`
	ErrorMessage   string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:         "healthy",
		PollIntervalMS: cfg.PollIntervalMS,
		Details:        make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		logging.SLog.Errorf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			logging.SLog.Errorf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Mail and storage are optional integrations; an unreachable endpoint is
	// reported but does not fail the check.
	if cfg.MailConfigured() {
		addr := fmt.Sprintf("smtp://%s:%d", cfg.SMTPHost, cfg.SMTPPort)
		if err := utils.PingService(addr, integrationPingTimeout); err != nil {
			result.Mail = "unreachable"
			result.Details["mail_error"] = err.Error()
		} else {
			result.Mail = "ok"
		}
	} else {
		result.Mail = "disabled"
	}
	if cfg.StorageConfigured() {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		if err := utils.PingService(scheme+"://"+cfg.StorageEndpoint, integrationPingTimeout); err != nil {
			result.Storage = "unreachable"
			result.Details["storage_error"] = err.Error()
		} else {
			result.Storage = "ok"
		}
	} else {
		result.Storage = "disabled"
	}

	return result
}
