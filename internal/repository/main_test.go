package repository

import (
	"testing"

	"postsio/internal/database"
	"postsio/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func setupRepos(t *testing.T) (UserRepository, PostRepository, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	users := NewUserRepository(db, posts)
	return users, posts, db
}

func testUser(username string) *models.User {
	return &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		Status:   models.StatusActive,
	}
}
