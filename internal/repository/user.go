// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"postsio/internal/cache"
	"postsio/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	welcomeTitleFormat = "%s, welcome to Posts.io !"
	welcomeContent     = "This is your first post! Click on the plus to add your own content."
)

// visibleUserColumns is the default read projection. Password and email are
// excluded; FindOnePrivate re-includes fields by name.
var visibleUserColumns = []string{
	"id", "username", "date_created", "type", "gender", "status", "birthdate",
	"created_at", "updated_at",
}

// UserRepository defines persistence operations for users, including the two
// lifecycle rules anchored to user mutations: Create provisions the welcome
// post and Delete cascades removal of the user's posts and comments. Both are
// plain synchronous calls so the side effects are visible at call sites.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	FindActive(ctx context.Context, filter map[string]interface{}) ([]models.User, error)
	FindOneActive(ctx context.Context, filter map[string]interface{}) (*models.User, error)
	FindByIDActive(ctx context.Context, id string) ([]models.User, error)
	FindOnePrivate(ctx context.Context, filter map[string]interface{}, fields ...string) (*models.User, error)
	SignupStats(ctx context.Context) ([]models.SignupStat, error)
}

type userRepository struct {
	db    *gorm.DB
	posts PostRepository
}

// NewUserRepository returns a new UserRepository implementation. The post
// repository is used by the welcome-post and cascade-delete rules.
func NewUserRepository(db *gorm.DB, posts PostRepository) UserRepository {
	return &userRepository{db: db, posts: posts}
}

// Create validates and persists the user, then synchronously provisions the
// welcome post. A welcome-post failure propagates to the caller but leaves
// the already-persisted user in place; there is no compensating deletion.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Normalize()
	if err := user.Validate(); err != nil {
		return err
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.NewInternalError(err)
		}
		user.Password = string(hash)
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("username or email already taken")
		}
		return models.NewInternalError(err)
	}

	cache.InvalidateSignupStats(ctx)

	welcome := models.Post{
		Title:   fmt.Sprintf(welcomeTitleFormat, user.Username),
		Content: welcomeContent,
		UserID:  user.ID,
	}
	return r.posts.Create(ctx, &welcome)
}

// Delete removes the user after cascading: first the user's posts, then the
// user's comments embedded in surviving posts. The steps are best-effort
// sequential; a failure aborts the remaining steps without rolling back the
// ones already applied. Deleting an unknown id is a no-op reported as success.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	if err := r.posts.DeleteByUser(ctx, id); err != nil {
		return err
	}
	if err := r.posts.RemoveCommentsByUser(ctx, id); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error; err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateSignupStats(ctx)
	return nil
}

// FindActive returns all users matching the caller's filter merged over an
// implicit {status: active} constraint. Caller-supplied fields win on
// conflict since they are merged last.
func (r *userRepository) FindActive(ctx context.Context, filter map[string]interface{}) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Select(visibleUserColumns).
		Where(mergeActiveFilter(filter)).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// FindOneActive returns the first user matching the merged filter, or nil.
func (r *userRepository) FindOneActive(ctx context.Context, filter map[string]interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Select(visibleUserColumns).
		Where(mergeActiveFilter(filter)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// FindByIDActive returns the active users matching the given id. The result
// is a collection even though at most one user can match; callers expect the
// find-shaped return.
func (r *userRepository) FindByIDActive(ctx context.Context, id string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Select(visibleUserColumns).
		Where("status = ? AND id = ?", models.StatusActive, id).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// FindOnePrivate returns the first user matching filter with the named
// normally-hidden fields re-included in the projection, in addition to all
// normally visible fields. With no fields given, password is re-included.
// There is no implicit status constraint.
func (r *userRepository) FindOnePrivate(ctx context.Context, filter map[string]interface{}, fields ...string) (*models.User, error) {
	if len(fields) == 0 {
		fields = []string{"password"}
	}
	columns := append(append([]string{}, visibleUserColumns...), fields...)

	var user models.User
	query := r.db.WithContext(ctx).Select(columns)
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// SignupStats aggregates signups per (year, month) of dateCreated and orders
// the result descending by volume. The result is served through the cache
// with a short TTL; create/delete invalidate it.
func (r *userRepository) SignupStats(ctx context.Context) ([]models.SignupStat, error) {
	var stats []models.SignupStat
	err := cache.Aside(ctx, cache.SignupStatsKey(), &stats, cache.SignupStatsTTL, func() error {
		var rows []signupRow
		if err := r.db.WithContext(ctx).
			Model(&models.User{}).
			Select("id", "username", "date_created").
			Find(&rows).Error; err != nil {
			return models.NewInternalError(err)
		}
		stats = aggregateSignupStats(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

type signupRow struct {
	ID          string
	Username    string
	DateCreated *time.Time
}

type signupGroup struct {
	year    *int
	month   *int
	members []signupRow
}

// aggregateSignupStats groups rows by (year, month) of dateCreated, sorts the
// groups chronologically, reshapes each into a count, and finally re-sorts
// descending by count. The chronological order survives only as the tiebreak
// of the stable final sort. Rows without a dateCreated group under
// (null, null).
func aggregateSignupStats(rows []signupRow) []models.SignupStat {
	type key struct {
		year, month int
		null        bool
	}

	groups := make(map[key]*signupGroup)
	for _, row := range rows {
		var k key
		if row.DateCreated == nil {
			k.null = true
		} else {
			k.year = row.DateCreated.Year()
			k.month = int(row.DateCreated.Month())
		}
		g, ok := groups[k]
		if !ok {
			g = &signupGroup{}
			if !k.null {
				y, m := k.year, k.month
				g.year, g.month = &y, &m
			}
			groups[k] = g
		}
		g.members = append(g.members, row)
	}

	ordered := make([]*signupGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		gi, gj := ordered[i], ordered[j]
		// Null dates sort before any real date.
		if gi.year == nil || gj.year == nil {
			return gi.year == nil && gj.year != nil
		}
		if *gi.year != *gj.year {
			return *gi.year < *gj.year
		}
		return *gi.month < *gj.month
	})

	stats := make([]models.SignupStat, 0, len(ordered))
	for _, g := range ordered {
		stats = append(stats, models.SignupStat{
			Year:    g.year,
			Month:   g.month,
			NbUsers: len(g.members),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].NbUsers > stats[j].NbUsers
	})
	return stats
}

func mergeActiveFilter(filter map[string]interface{}) map[string]interface{} {
	merged := map[string]interface{}{"status": string(models.StatusActive)}
	for k, v := range filter {
		merged[k] = v
	}
	return merged
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports
	// "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
