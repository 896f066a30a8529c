package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ayoisaiah/cashtimer/internal/models"
)

type sessionRecord struct {
	CreatedAt  time.Time       `gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime:false"`
	StartTime  time.Time       `gorm:"not null;index"`
	EndTime    *time.Time
	HourlyRate decimal.Decimal `gorm:"type:text;not null"`
	Earnings   decimal.Decimal `gorm:"type:text;not null"`
	ID         string          `gorm:"primaryKey"`
	OwnerID    string          `gorm:"not null;index"`
	Pauses     []pauseRecord   `gorm:"foreignKey:SessionID"`
}

func (sessionRecord) TableName() string {
	return "timer_sessions"
}

type pauseRecord struct {
	StartTime time.Time `gorm:"not null"`
	EndTime   *time.Time
	ID        string `gorm:"primaryKey"`
	SessionID string `gorm:"not null;index"`
}

func (pauseRecord) TableName() string {
	return "session_pauses"
}

type userRecord struct {
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	ID        string    `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
}

func (userRecord) TableName() string {
	return "users"
}

type metaRecord struct {
	Name  string `gorm:"primaryKey"`
	Value string
}

func (metaRecord) TableName() string {
	return "meta"
}

// SQLite stores sessions in relational tables through GORM.
type SQLite struct {
	db *gorm.DB
}

// NewSQLite opens the SQLite database at path and migrates its schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&sessionRecord{},
		&pauseRecord{},
		&userRecord{},
		&metaRecord{},
	)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func toRecord(sess *models.Session) sessionRecord {
	r := sessionRecord{
		ID:         sess.ID,
		OwnerID:    sess.OwnerID,
		StartTime:  sess.StartTime,
		EndTime:    sess.EndTime,
		HourlyRate: sess.HourlyRate,
		Earnings:   sess.Earnings,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	}

	for _, p := range sess.Pauses {
		r.Pauses = append(r.Pauses, pauseRecord{
			ID:        p.ID,
			SessionID: sess.ID,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
		})
	}

	return r
}

func fromRecord(r *sessionRecord) *models.Session {
	sess := &models.Session{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		HourlyRate: r.HourlyRate,
		Earnings:   r.Earnings,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Pauses:     make([]models.Pause, 0, len(r.Pauses)),
	}

	for _, p := range r.Pauses {
		sess.Pauses = append(sess.Pauses, models.Pause{
			ID:        p.ID,
			SessionID: p.SessionID,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
		})
	}

	sess.SortPauses()

	return sess
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}

func (s *SQLite) CreateSession(ctx context.Context, sess *models.Session) error {
	r := toRecord(sess)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Create(&r).Error
		if err != nil {
			return err
		}

		if len(r.Pauses) == 0 {
			return nil
		}

		return tx.Create(&r.Pauses).Error
	})
}

func (s *SQLite) UpdateSession(ctx context.Context, sess *models.Session) error {
	r := toRecord(sess)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing sessionRecord

		err := tx.Select("id").First(&existing, "id = ?", r.ID).Error
		if err != nil {
			return translate(err)
		}

		err = tx.Omit(clause.Associations).Save(&r).Error
		if err != nil {
			return err
		}

		err = tx.Where("session_id = ?", r.ID).Delete(&pauseRecord{}).Error
		if err != nil {
			return err
		}

		if len(r.Pauses) == 0 {
			return nil
		}

		return tx.Create(&r.Pauses).Error
	})
}

func (s *SQLite) DeleteSession(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("session_id = ?", id).Delete(&pauseRecord{}).Error
		if err != nil {
			return err
		}

		result := tx.Delete(&sessionRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}

func (s *SQLite) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var r sessionRecord

	err := s.db.WithContext(ctx).
		Preload("Pauses").
		First(&r, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}

	return fromRecord(&r), nil
}

func (s *SQLite) ListSessions(
	ctx context.Context,
	ownerID string,
) ([]*models.Session, error) {
	var records []sessionRecord

	err := s.db.WithContext(ctx).
		Preload("Pauses").
		Where("owner_id = ?", ownerID).
		Order("start_time ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*models.Session, len(records))
	for i := range records {
		sessions[i] = fromRecord(&records[i])
	}

	sortByStart(sessions)

	return sessions, nil
}

func (s *SQLite) putMeta(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&metaRecord{Name: key, Value: value}).Error
}

func (s *SQLite) getMeta(ctx context.Context, key string) (string, error) {
	var m metaRecord

	err := s.db.WithContext(ctx).First(&m, "name = ?", key).Error
	if err != nil {
		return "", translate(err)
	}

	return m.Value, nil
}

func (s *SQLite) SaveRates(ctx context.Context, table *models.RateTable) error {
	b, err := json.Marshal(table)
	if err != nil {
		return err
	}

	return s.putMeta(ctx, keyRates, string(b))
}

func (s *SQLite) LoadRates(ctx context.Context) (*models.RateTable, error) {
	v, err := s.getMeta(ctx, keyRates)
	if err != nil {
		return nil, err
	}

	var table models.RateTable

	err = json.Unmarshal([]byte(v), &table)
	if err != nil {
		return nil, err
	}

	return &table, nil
}

func (s *SQLite) SaveUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&userRecord{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		}).Error
}

func (s *SQLite) FindUser(ctx context.Context, email string) (*models.User, error) {
	var r userRecord

	err := s.db.WithContext(ctx).First(&r, "email = ?", email).Error
	if err != nil {
		return nil, translate(err)
	}

	return &models.User{ID: r.ID, Email: r.Email, CreatedAt: r.CreatedAt}, nil
}

func (s *SQLite) SetCurrentUser(ctx context.Context, id string) error {
	if id == "" {
		return s.db.WithContext(ctx).
			Delete(&metaRecord{}, "name = ?", keyCurrentUser).Error
	}

	return s.putMeta(ctx, keyCurrentUser, id)
}

func (s *SQLite) CurrentUser(ctx context.Context) (*models.User, error) {
	id, err := s.getMeta(ctx, keyCurrentUser)
	if err != nil {
		return nil, err
	}

	var r userRecord

	err = s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}

	return &models.User{ID: r.ID, Email: r.Email, CreatedAt: r.CreatedAt}, nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
