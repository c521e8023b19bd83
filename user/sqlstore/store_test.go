package sqlstore_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/userauth/auth/jwt"
	"github.com/kbukum/userauth/auth/password"
	"github.com/kbukum/userauth/database"
	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/user"
	"github.com/kbukum/userauth/user/sqlstore"
	"github.com/kbukum/userauth/util"
)

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	comp := database.NewComponent(database.Config{DSN: dsn, LogLevel: "silent"}, logger.NewNop()).
		WithMigrations(sqlstore.Migrations, sqlstore.MigrationsPath)
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })
	return sqlstore.New(comp.DB())
}

func record(email string, at time.Time) *user.Record {
	return &user.Record{
		ID:           user.NewID(),
		Name:         "John",
		Surname:      "Doe",
		Nickname:     "jd",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         user.RoleUser,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

func TestStore_InsertAndFind(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	rec := record("john@test.com", created)

	id, err := s.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id != rec.ID {
		t.Errorf("id = %q, want %q", id, rec.ID)
	}

	byEmail, err := s.FindByEmail(ctx, "john@test.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	byID, err := s.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if *byEmail != *byID {
		t.Errorf("lookups disagree: %+v vs %+v", byEmail, byID)
	}
	if byID.PasswordHash != rec.PasswordHash || !byID.CreatedAt.Equal(created) {
		t.Errorf("unexpected record %+v", byID)
	}

	if _, err := s.FindByEmail(ctx, "ghost@test.com"); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.FindByID(ctx, user.NewID()); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_DuplicateEmail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.Insert(ctx, record("john@test.com", created)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_, err := s.Insert(ctx, record("john@test.com", created))
	if !errors.Is(err, user.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	rec := record("john@test.com", created)
	if _, err := s.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	nick := "johnny"
	later := created.Add(time.Hour)
	if err := s.UpdateProfile(ctx, rec.ID, user.Profile{Nickname: &nick, UpdatedAt: later}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := s.FindByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Nickname != "johnny" || got.Name != "John" || !got.UpdatedAt.Equal(later) || !got.CreatedAt.Equal(created) {
		t.Errorf("unexpected record after update %+v", got)
	}

	err = s.UpdateProfile(ctx, user.NewID(), user.Profile{Nickname: &nick, UpdatedAt: later})
	if !errors.Is(err, user.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListInRegistrationOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	empty, err := s.List(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v %v", empty, err)
	}

	emails := []string{"c@test.com", "a@test.com", "b@test.com"}
	for i, e := range emails {
		if _, err := s.Insert(ctx, record(e, created.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Insert %s: %v", e, err)
		}
	}

	recs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != len(emails) {
		t.Fatalf("got %d records", len(recs))
	}
	for i, r := range recs {
		if r.Email != emails[i] {
			t.Errorf("position %d: %s, want %s", i, r.Email, emails[i])
		}
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.List(ctx); err == nil {
		t.Error("expected an error on a canceled context")
	}
}

func TestService_OverSQLite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	codec, err := jwt.NewCodec(&jwt.Config{Secret: "sqlstore-test-secret"})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	svc := user.NewService(s, password.NewBcryptHasher(password.WithCost(bcrypt.MinCost)), codec,
		user.WithLogger(logger.NewNop()))

	res, err := svc.Register(ctx, user.RegisterInput{
		Name: "John", Surname: "Doe", Nickname: "jd", Email: "John@Test.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	login, err := svc.Login(ctx, user.LoginInput{Email: "john@test.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User == nil || login.User.ID != res.ID {
		t.Errorf("unexpected login %+v", login)
	}

	if err := svc.Update(ctx, res.ID, user.UpdateInput{Name: util.Ptr("Johnny")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	pub, err := svc.GetByID(ctx, res.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if pub.Name != "Johnny" || pub.Surname != "Doe" {
		t.Errorf("unexpected account %+v", pub)
	}
}
