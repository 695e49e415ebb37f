package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"appstore/internal/models"
	"appstore/internal/repositories"
	"appstore/pkg/rabbitmq"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errAlreadyDownloaded aborts the purchase transaction when the join row
// already exists; the caller turns it back into an idempotent success.
var errAlreadyDownloaded = errors.New("already downloaded")

// DownloadPublisher publishes download events to the message bus.
type DownloadPublisher interface {
	PublishDownloadEvent(event rabbitmq.DownloadEvent) error
}

// DownloadService implements the purchase of an app against a user's balance.
type DownloadService struct {
	db        *gorm.DB
	publisher DownloadPublisher
}

// NewDownloadService creates a new DownloadService.
func NewDownloadService(db *gorm.DB, publisher DownloadPublisher) *DownloadService {
	return &DownloadService{db: db, publisher: publisher}
}

// DownloadResult reports the outcome of a download. A repeated download is a
// success with AlreadyDownloaded set and no state change.
type DownloadResult struct {
	User              *models.User
	App               *models.App
	AlreadyDownloaded bool
}

// Download debits the user, increments the app's download counter and records
// the join row in one transaction. The join table's composite primary key is
// the guard against two concurrent downloads of the same pair: the losing
// transaction hits the duplicate key, rolls back and degrades to the
// idempotent no-op outcome.
func (s *DownloadService) Download(userID, appID uint) (*DownloadResult, error) {
	var price float64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user or app", repositories.ErrNotFound)
			}
			return fmt.Errorf("failed to get user %d: %w", userID, err)
		}
		var app models.App
		if err := tx.First(&app, appID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user or app", repositories.ErrNotFound)
			}
			return fmt.Errorf("failed to get app %d: %w", appID, err)
		}
		price = app.Price

		var existing models.Download
		err := tx.Where("user_id = ? AND app_id = ?", userID, appID).First(&existing).Error
		if err == nil {
			return errAlreadyDownloaded
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check download of user %d app %d: %w", userID, appID, err)
		}

		if app.Price > user.Balance {
			return fmt.Errorf("%w: balance %.2f, price %.2f", ErrInsufficientFunds, user.Balance, app.Price)
		}

		if err := tx.Create(&models.Download{UserID: userID, AppID: appID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyDownloaded
			}
			return fmt.Errorf("failed to record download of user %d app %d: %w", userID, appID, err)
		}

		// Conditional debit: the balance check is repeated in the WHERE
		// clause so a concurrent debit cannot drive the balance negative.
		debit := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", userID, app.Price).
			Updates(map[string]interface{}{
				"balance":      gorm.Expr("balance - ?", app.Price),
				"count_inputs": gorm.Expr("count_inputs + 1"),
			})
		if debit.Error != nil {
			return fmt.Errorf("failed to debit user %d: %w", userID, debit.Error)
		}
		if debit.RowsAffected == 0 {
			return fmt.Errorf("%w: balance below price %.2f", ErrInsufficientFunds, app.Price)
		}

		if err := tx.Model(&models.App{}).Where("id = ?", appID).
			Update("downloads", gorm.Expr("downloads + 1")).Error; err != nil {
			return fmt.Errorf("failed to count download of app %d: %w", appID, err)
		}
		return nil
	})

	alreadyDownloaded := errors.Is(err, errAlreadyDownloaded)
	if err != nil && !alreadyDownloaded {
		return nil, err
	}

	result := &DownloadResult{AlreadyDownloaded: alreadyDownloaded}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user %d: %w", userID, err)
	}
	result.User = &user
	var app models.App
	if err := s.db.First(&app, appID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload app %d: %w", appID, err)
	}
	result.App = &app

	if !alreadyDownloaded {
		s.publishEvent(userID, appID, price)
	}
	return result, nil
}

// publishEvent emits a download event. Publishing is best-effort: a broker
// failure is logged and never fails the completed download.
func (s *DownloadService) publishEvent(userID, appID uint, price float64) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.DownloadEvent{
		EventID:    uuid.New().String(),
		UserID:     userID,
		AppID:      appID,
		Price:      price,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishDownloadEvent(event); err != nil {
		log.Printf("Warning: failed to publish download event for user %d app %d: %v", userID, appID, err)
	}
}
