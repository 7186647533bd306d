package repositories

import (
	"gorm.io/gorm"
	domainRepos "payportal.backend/internal/domain/repositories"
	"payportal.backend/internal/infrastructure/models"
)

var (
	_ domainRepos.UserRepository         = (*UserRepository)(nil)
	_ domainRepos.EmployeeRepository     = (*EmployeeRepository)(nil)
	_ domainRepos.PaymentRepository      = (*PaymentRepository)(nil)
	_ domainRepos.NotificationRepository = (*NotificationRepository)(nil)
	_ domainRepos.HistoryRepository      = (*HistoryRepository)(nil)
)

// AutoMigrate creates or updates every portal table and index
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
