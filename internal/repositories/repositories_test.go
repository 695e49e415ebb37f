package repositories_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"appstore/internal/database"
	"appstore/internal/models"
	"appstore/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens an isolated in-memory SQLite database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestUser(login string) *models.User {
	return &models.User{
		Login:    login,
		Email:    login + "@example.com",
		Name:     "User " + login,
		Password: "hashed-secret",
	}
}

func newTestApp(name string, categoryID uint, price float64) *models.App {
	return &models.App{
		Name:       name,
		URL:        "https://apps.example.com/" + name,
		ShortDescr: "short description",
		FullDescr:  "full description",
		Price:      price,
		Rating:     5,
		CategoryID: categoryID,
	}
}

func TestUserRepository_CreateDefaultsAndConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := newTestUser("alice")
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, 0.0, user.Balance)
	assert.Equal(t, 0, user.CountInputs)

	// Same login, different email
	dup := newTestUser("alice")
	dup.Email = "other@example.com"
	err := repo.Create(dup)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	// Same email, different login
	dup2 := newTestUser("bob")
	dup2.Email = "alice@example.com"
	err = repo.Create(dup2)
	assert.ErrorIs(t, err, repositories.ErrConflict)
}

func TestUserRepository_PartialUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := newTestUser("carol")
	user.Balance = 55.5
	user.Age = 30
	require.NoError(t, repo.Create(user))
	before := user.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	newName := "Carol Renamed"
	updated, err := repo.Update(user.ID, models.UserPatch{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Carol Renamed", updated.Name)
	assert.Equal(t, "carol", updated.Login)
	assert.Equal(t, 55.5, updated.Balance)
	assert.Equal(t, 30, updated.Age)
	assert.True(t, updated.UpdatedAt.After(before))
}

func TestUserRepository_UpdateNotFoundAndConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	name := "Nobody"
	_, err := repo.Update(999, models.UserPatch{Name: &name})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.Create(newTestUser("dave")))
	eve := newTestUser("eve")
	require.NoError(t, repo.Create(eve))

	taken := "dave"
	_, err = repo.Update(eve.ID, models.UserPatch{Login: &taken})
	assert.ErrorIs(t, err, repositories.ErrConflict)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	appRepo := repositories.NewGORMAppRepository(db)
	reportRepo := repositories.NewGORMReportRepository(db)

	user := newTestUser("frank")
	require.NoError(t, userRepo.Create(user))
	category := &models.Category{Name: "Games"}
	require.NoError(t, categoryRepo.Create(category))
	app := newTestApp("chess", category.ID, 0)
	require.NoError(t, appRepo.Create(app))

	require.NoError(t, db.Create(&models.Download{UserID: user.ID, AppID: app.ID}).Error)
	require.NoError(t, reportRepo.Create(&models.Report{UserID: user.ID, AppID: app.ID, Text: "nice"}))

	deleted, err := userRepo.Delete(user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = userRepo.GetByID(user.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	var downloads int64
	require.NoError(t, db.Model(&models.Download{}).Where("user_id = ?", user.ID).Count(&downloads).Error)
	assert.Zero(t, downloads)
	reports, err := reportRepo.GetByUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, reports)

	// Deleting again reports not found via the boolean
	deleted, err = userRepo.Delete(user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUserRepository_GetAllOrderedByCreation(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	for _, login := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, repo.Create(newTestUser(login)))
		time.Sleep(5 * time.Millisecond)
	}

	users, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "zeta", users[0].Login)
	assert.Equal(t, "alpha", users[1].Login)
	assert.Equal(t, "mid", users[2].Login)
}

func TestCategoryRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMCategoryRepository(db)

	games := &models.Category{Name: "Games"}
	require.NoError(t, repo.Create(games))

	err := repo.Create(&models.Category{Name: "Games"})
	assert.ErrorIs(t, err, repositories.ErrConflict)

	require.NoError(t, repo.Create(&models.Category{Name: "Business"}))
	categories, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Business", categories[0].Name)
	assert.Equal(t, "Games", categories[1].Name)

	newName := "Arcade"
	updated, err := repo.Update(games.ID, models.CategoryPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Arcade", updated.Name)

	deleted, err := repo.Delete(games.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.GetByID(games.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCategoryRepository_DeleteWithAppsConflicts(t *testing.T) {
	db := setupTestDB(t)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	appRepo := repositories.NewGORMAppRepository(db)

	category := &models.Category{Name: "Tools"}
	require.NoError(t, categoryRepo.Create(category))
	require.NoError(t, appRepo.Create(newTestApp("wrench", category.ID, 0)))

	_, err := categoryRepo.Delete(category.ID)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	// The category survives the rejected delete
	_, err = categoryRepo.GetByID(category.ID)
	assert.NoError(t, err)
}

func TestAppRepository_CreateConflictsAndMissingCategory(t *testing.T) {
	db := setupTestDB(t)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	appRepo := repositories.NewGORMAppRepository(db)

	category := &models.Category{Name: "Games"}
	require.NoError(t, categoryRepo.Create(category))

	app := newTestApp("chess", category.ID, 1.99)
	require.NoError(t, appRepo.Create(app))
	assert.NotZero(t, app.ID)
	assert.Equal(t, 0, app.Downloads)

	dup := newTestApp("chess", category.ID, 0)
	dup.URL = "https://apps.example.com/other"
	assert.ErrorIs(t, appRepo.Create(dup), repositories.ErrConflict)

	dupURL := newTestApp("checkers", category.ID, 0)
	dupURL.URL = app.URL
	assert.ErrorIs(t, appRepo.Create(dupURL), repositories.ErrConflict)

	orphan := newTestApp("orphan", 999, 0)
	assert.ErrorIs(t, appRepo.Create(orphan), repositories.ErrNotFound)
}

func TestAppRepository_GetByCategoryOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	appRepo := repositories.NewGORMAppRepository(db)

	games := &models.Category{Name: "Games"}
	tools := &models.Category{Name: "Tools"}
	require.NoError(t, categoryRepo.Create(games))
	require.NoError(t, categoryRepo.Create(tools))

	require.NoError(t, appRepo.Create(newTestApp("zebra", games.ID, 0)))
	require.NoError(t, appRepo.Create(newTestApp("ant", games.ID, 0)))
	require.NoError(t, appRepo.Create(newTestApp("hammer", tools.ID, 0)))

	apps, err := appRepo.GetByCategory(games.ID)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "ant", apps[0].Name)
	assert.Equal(t, "zebra", apps[1].Name)
	for _, app := range apps {
		assert.Equal(t, games.ID, app.CategoryID)
	}
}

func TestAppRepository_DownloadTraversals(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	appRepo := repositories.NewGORMAppRepository(db)

	category := &models.Category{Name: "Games"}
	require.NoError(t, categoryRepo.Create(category))
	app := newTestApp("chess", category.ID, 0)
	require.NoError(t, appRepo.Create(app))

	alice := newTestUser("alice")
	bob := newTestUser("bob")
	require.NoError(t, userRepo.Create(alice))
	require.NoError(t, userRepo.Create(bob))

	require.NoError(t, db.Create(&models.Download{UserID: alice.ID, AppID: app.ID}).Error)
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, db.Create(&models.Download{UserID: bob.ID, AppID: app.ID}).Error)

	users, err := appRepo.GetUsersWhoDownloaded(app.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Login)
	assert.Equal(t, "bob", users[1].Login)

	apps, err := userRepo.GetDownloadedApps(alice.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "chess", apps[0].Name)

	ids, err := userRepo.GetDownloadedAppIDs(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{app.ID}, ids)

	_, err = appRepo.GetUsersWhoDownloaded(999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = userRepo.GetDownloadedApps(999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDownloadJoin_CompositeKeyRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	appRepo := repositories.NewGORMAppRepository(db)

	user := newTestUser("alice")
	require.NoError(t, userRepo.Create(user))
	category := &models.Category{Name: "Games"}
	require.NoError(t, categoryRepo.Create(category))
	app := newTestApp("chess", category.ID, 0)
	require.NoError(t, appRepo.Create(app))

	require.NoError(t, db.Create(&models.Download{UserID: user.ID, AppID: app.ID}).Error)
	err := db.Create(&models.Download{UserID: user.ID, AppID: app.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestReportRepository_CRUDAndFilters(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	appRepo := repositories.NewGORMAppRepository(db)
	reportRepo := repositories.NewGORMReportRepository(db)

	user := newTestUser("alice")
	require.NoError(t, userRepo.Create(user))
	category := &models.Category{Name: "Games"}
	require.NoError(t, categoryRepo.Create(category))
	app := newTestApp("chess", category.ID, 0)
	require.NoError(t, appRepo.Create(app))

	rating := 4.5
	first := &models.Report{UserID: user.ID, AppID: app.ID, Text: "great", Rating: &rating}
	require.NoError(t, reportRepo.Create(first))
	// A user may file several reports for the same app
	second := &models.Report{UserID: user.ID, AppID: app.ID, Text: "still great"}
	require.NoError(t, reportRepo.Create(second))

	missing := &models.Report{UserID: 999, AppID: app.ID, Text: "ghost"}
	assert.ErrorIs(t, reportRepo.Create(missing), repositories.ErrNotFound)

	byUser, err := reportRepo.GetByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
	assert.Equal(t, first.ID, byUser[0].ID)

	byApp, err := reportRepo.GetByApp(app.ID)
	require.NoError(t, err)
	assert.Len(t, byApp, 2)

	newText := "edited"
	updated, err := reportRepo.Update(first.ID, models.ReportPatch{Text: &newText})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 4.5, *updated.Rating)

	deleted, err := reportRepo.Delete(first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = reportRepo.Delete(first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
