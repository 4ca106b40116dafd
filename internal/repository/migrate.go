package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables behind every gorm repository.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&workerModel{},
		&bookingModel{},
		&reviewModel{},
		&messageModel{},
	)
}
