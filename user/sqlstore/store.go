// Package sqlstore keeps accounts in a SQLite "users" table through GORM.
//
// The schema is versioned; Migrations holds the embedded SQL files and is
// applied by the database component:
//
//	comp := database.NewComponent(cfg, log).WithMigrations(sqlstore.Migrations, sqlstore.MigrationsPath)
package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/userauth/database"
	"github.com/kbukum/userauth/user"
)

// Migrations holds the versioned schema for the users table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsPath is the directory inside Migrations holding the SQL files.
const MigrationsPath = "migrations"

type row struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Surname      string    `gorm:"column:surname"`
	Nickname     string    `gorm:"column:nickname"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (row) TableName() string { return "users" }

func fromRecord(rec *user.Record) row {
	return row{
		ID:           rec.ID,
		Name:         rec.Name,
		Surname:      rec.Surname,
		Nickname:     rec.Nickname,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         rec.Role,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func (r *row) record() *user.Record {
	return &user.Record{
		ID:           r.ID,
		Name:         r.Name,
		Surname:      r.Surname,
		Nickname:     r.Nickname,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// Store is a user.Store backed by SQLite.
type Store struct {
	db *database.DB
}

// New returns a store over db. The schema must already be migrated.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// FindByEmail implements user.Store.
func (s *Store) FindByEmail(ctx context.Context, email string) (*user.Record, error) {
	return s.first(ctx, "email = ?", email)
}

// FindByID implements user.Store.
func (s *Store) FindByID(ctx context.Context, id string) (*user.Record, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) first(ctx context.Context, query string, arg string) (*user.Record, error) {
	var r row
	err := s.db.WithContext(ctx).Where(query, arg).First(&r).Error
	if database.IsNotFoundError(err) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: find: %w", err)
	}
	return r.record(), nil
}

// Insert implements user.Store.
func (s *Store) Insert(ctx context.Context, rec *user.Record) (string, error) {
	r := fromRecord(rec)
	res := s.db.WithContext(ctx).Create(&r)
	if database.IsDuplicateError(res.Error) {
		return "", fmt.Errorf("sqlstore: insert: %w", user.ErrDuplicateEmail)
	}
	if res.Error != nil {
		return "", fmt.Errorf("sqlstore: insert: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return "", user.ErrNotInserted
	}
	return r.ID, nil
}

// UpdateProfile implements user.Store. Only the fields set in p are written.
func (s *Store) UpdateProfile(ctx context.Context, id string, p user.Profile) error {
	changes := map[string]interface{}{"updated_at": p.UpdatedAt}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Surname != nil {
		changes["surname"] = *p.Surname
	}
	if p.Nickname != nil {
		changes["nickname"] = *p.Nickname
	}

	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&row{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return user.ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("sqlstore: update: %w", err)
	}
	return err
}

// List implements user.Store. Accounts come back in registration order.
func (s *Store) List(ctx context.Context) ([]*user.Record, error) {
	var rows []row
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlstore: list: %w", err)
	}
	out := make([]*user.Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out, nil
}

var _ user.Store = (*Store)(nil)
