package services_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"appstore/internal/database"
	"appstore/internal/models"
	"appstore/internal/repositories"
	"appstore/internal/services"
	"appstore/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []rabbitmq.DownloadEvent
}

func (p *recordingPublisher) PublishDownloadEvent(event rabbitmq.DownloadEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []rabbitmq.DownloadEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]rabbitmq.DownloadEvent(nil), p.events...)
}

func setupDownloadDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	// A single connection serializes the transactions, which keeps the
	// concurrency test deterministic on SQLite.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func seedUserAndApp(t *testing.T, db *gorm.DB, balance, price float64) (*models.User, *models.App) {
	t.Helper()
	user := &models.User{
		Login:    "buyer",
		Email:    "buyer@example.com",
		Name:     "Buyer",
		Password: "hashed-secret",
		Balance:  balance,
	}
	require.NoError(t, db.Create(user).Error)
	category := &models.Category{Name: "Games"}
	require.NoError(t, db.Create(category).Error)
	app := &models.App{
		Name:       "chess",
		URL:        "https://apps.example.com/chess",
		ShortDescr: "short description",
		FullDescr:  "full description",
		Price:      price,
		Rating:     5,
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(app).Error)
	return user, app
}

func countDownloads(t *testing.T, db *gorm.DB, userID, appID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Download{}).
		Where("user_id = ? AND app_id = ?", userID, appID).
		Count(&count).Error)
	return count
}

func TestDownload_DebitsAndRecords(t *testing.T) {
	db := setupDownloadDB(t)
	publisher := &recordingPublisher{}
	service := services.NewDownloadService(db, publisher)
	user, app := seedUserAndApp(t, db, 100, 30)

	result, err := service.Download(user.ID, app.ID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyDownloaded)
	assert.Equal(t, 70.0, result.User.Balance)
	assert.Equal(t, 1, result.User.CountInputs)
	assert.Equal(t, 1, result.App.Downloads)
	assert.Equal(t, int64(1), countDownloads(t, db, user.ID, app.ID))

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, user.ID, events[0].UserID)
	assert.Equal(t, app.ID, events[0].AppID)
	assert.Equal(t, 30.0, events[0].Price)
	assert.NotEmpty(t, events[0].EventID)
}

func TestDownload_RepeatIsIdempotent(t *testing.T) {
	db := setupDownloadDB(t)
	publisher := &recordingPublisher{}
	service := services.NewDownloadService(db, publisher)
	user, app := seedUserAndApp(t, db, 100, 30)

	_, err := service.Download(user.ID, app.ID)
	require.NoError(t, err)

	result, err := service.Download(user.ID, app.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyDownloaded)
	assert.Equal(t, 70.0, result.User.Balance)
	assert.Equal(t, 1, result.User.CountInputs)
	assert.Equal(t, 1, result.App.Downloads)
	assert.Equal(t, int64(1), countDownloads(t, db, user.ID, app.ID))

	// Only the first download publishes an event
	assert.Len(t, publisher.Events(), 1)
}

func TestDownload_InsufficientFunds(t *testing.T) {
	db := setupDownloadDB(t)
	publisher := &recordingPublisher{}
	service := services.NewDownloadService(db, publisher)
	user, app := seedUserAndApp(t, db, 10, 30)

	_, err := service.Download(user.ID, app.ID)
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)

	// Nothing changed
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 10.0, reloaded.Balance)
	assert.Equal(t, 0, reloaded.CountInputs)
	var reloadedApp models.App
	require.NoError(t, db.First(&reloadedApp, app.ID).Error)
	assert.Equal(t, 0, reloadedApp.Downloads)
	assert.Equal(t, int64(0), countDownloads(t, db, user.ID, app.ID))
	assert.Empty(t, publisher.Events())
}

func TestDownload_ExactBalanceSucceeds(t *testing.T) {
	db := setupDownloadDB(t)
	service := services.NewDownloadService(db, nil)
	user, app := seedUserAndApp(t, db, 30, 30)

	result, err := service.Download(user.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.User.Balance)
}

func TestDownload_FreeAppWithEmptyBalance(t *testing.T) {
	db := setupDownloadDB(t)
	service := services.NewDownloadService(db, nil)
	user, app := seedUserAndApp(t, db, 0, 0)

	result, err := service.Download(user.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.User.Balance)
	assert.Equal(t, 1, result.App.Downloads)
}

func TestDownload_UnknownUserOrApp(t *testing.T) {
	db := setupDownloadDB(t)
	service := services.NewDownloadService(db, nil)
	user, app := seedUserAndApp(t, db, 100, 30)

	_, err := service.Download(999, app.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = service.Download(user.ID, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDownload_ExistingJoinRowSkipsDebit(t *testing.T) {
	db := setupDownloadDB(t)
	service := services.NewDownloadService(db, nil)
	user, app := seedUserAndApp(t, db, 100, 30)

	// Join row present without a debit, as after a restore from backup
	require.NoError(t, db.Create(&models.Download{UserID: user.ID, AppID: app.ID}).Error)

	result, err := service.Download(user.ID, app.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyDownloaded)
	assert.Equal(t, 100.0, result.User.Balance)
	assert.Equal(t, 0, result.App.Downloads)
}

func TestDownload_ConcurrentSamePairDebitsOnce(t *testing.T) {
	db := setupDownloadDB(t)
	service := services.NewDownloadService(db, nil)
	// Balance covers exactly one purchase
	user, app := seedUserAndApp(t, db, 30, 30)

	var wg sync.WaitGroup
	results := make([]*services.DownloadResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.Download(user.ID, app.ID)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, results[0].AlreadyDownloaded, results[1].AlreadyDownloaded,
		"exactly one of the two downloads performs the purchase")

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 0.0, reloaded.Balance)
	assert.Equal(t, 1, reloaded.CountInputs)
	var reloadedApp models.App
	require.NoError(t, db.First(&reloadedApp, app.ID).Error)
	assert.Equal(t, 1, reloadedApp.Downloads)
	assert.Equal(t, int64(1), countDownloads(t, db, user.ID, app.ID))
}
