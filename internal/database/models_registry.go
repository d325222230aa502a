package database

import "postsio/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Tests AutoMigrate these against in-memory sqlite; the postgres schema is
// managed by the embedded SQL migrations.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
	}
}
