package services

import (
	"github.com/keshercrm/kesher-crm/internal/models"
	"gorm.io/gorm"
)

// DashboardStats is the aggregate snapshot shown on the home screen.
type DashboardStats struct {
	Customers      int64   `json:"customers"`
	Contacts       int64   `json:"contacts"`
	Certifications int64   `json:"certifications"`
	Deals          int64   `json:"deals"`
	Tasks          int64   `json:"tasks"`
	OpenTasks      int64   `json:"openTasks"`
	PipelineValue  float64 `json:"pipelineValue"`
}

// GetDashboardStats computes entity counts and the open pipeline value. Lost
// deals are excluded from the pipeline sum.
func GetDashboardStats(db *gorm.DB) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := db.Model(&models.Customer{}).Count(&stats.Customers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Contact{}).Count(&stats.Contacts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Certification{}).Count(&stats.Certifications).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Deal{}).Count(&stats.Deals).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).Count(&stats.Tasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).Where("completed = ?", false).Count(&stats.OpenTasks).Error; err != nil {
		return nil, err
	}

	var pipeline *float64
	err := db.Model(&models.Deal{}).
		Where("stage <> ?", "closed_lost").
		Select("SUM(value)").
		Scan(&pipeline).Error
	if err != nil {
		return nil, err
	}
	if pipeline != nil {
		stats.PipelineValue = *pipeline
	}

	return stats, nil
}
