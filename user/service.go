package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/userauth/auth"
	"github.com/kbukum/userauth/auth/password"
	apperrors "github.com/kbukum/userauth/errors"
	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/observability"
	"github.com/kbukum/userauth/resilience"
	"github.com/kbukum/userauth/validation"
)

const (
	serviceName = "user"
	resource    = "User"

	// DefaultOperationTimeout bounds a single store call.
	DefaultOperationTimeout = 10 * time.Second
)

// RegisterResult is returned by a successful registration.
type RegisterResult struct {
	ID      string `json:"-"`
	Message string `json:"message"`
}

// LoginResult is returned by a successful login. User is omitted when only
// the token was requested.
type LoginResult struct {
	Token string  `json:"token"`
	User  *Public `json:"user,omitempty"`
}

// Service implements registration, login and account management on top of
// a Store.
type Service struct {
	store   Store
	hasher  password.Hasher
	tokens  auth.TokenIssuer
	log     *logger.Logger
	metrics *observability.Metrics
	now     func() time.Time
	timeout time.Duration
	breaker *resilience.Breaker
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l.WithComponent(serviceName) }
}

// WithMetrics records operation and auth metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithOperationTimeout bounds each store call. Zero keeps the default.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithBreaker guards store calls with a circuit breaker. Only datastore
// failures count against it; not-found and duplicate results do not. While
// it is open, operations fail with SERVICE_UNAVAILABLE.
func WithBreaker(cfg resilience.BreakerConfig) Option {
	return func(s *Service) {
		if cfg.IsFailure == nil {
			cfg.IsFailure = isStoreFailure
		}
		s.breaker = resilience.NewBreaker(cfg)
	}
}

// NewService creates the account service.
func NewService(store Store, hasher password.Hasher, tokens auth.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		log:     logger.WithComponent(serviceName),
		now:     time.Now,
		timeout: DefaultOperationTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with the ROLE_USER role.
func (s *Service) Register(ctx context.Context, in RegisterInput) (res *RegisterResult, err error) {
	ctx, op := observability.StartOperation(ctx, serviceName, "register", s.metrics)
	defer func() { op.End(ctx, err) }()
	log := s.log.WithContext(ctx)

	in.normalize()
	if err = validation.Validate(in); err != nil {
		log.Info("Registration rejected", logger.Fields(logger.FieldCode, string(apperrors.Wrap(err).Code)))
		return nil, err
	}

	existing, err := s.findByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Info("Email already registered", logger.Fields(logger.FieldEmail, in.Email))
		s.authEvent(ctx, "register", "duplicate_email")
		return nil, apperrors.DuplicateEmail(in.Email)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, apperrors.InvalidInput("password must be at most 72 bytes").WithDetail("fields", []string{"password"})
		}
		return nil, apperrors.Internal(err)
	}

	now := s.now().UTC()
	rec := &Record{
		ID:           NewID(),
		Name:         in.Name,
		Surname:      in.Surname,
		Nickname:     in.Nickname,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var id string
	err = s.call(ctx, func(ctx context.Context) (err error) {
		id, err = s.store.Insert(ctx, rec)
		return err
	})
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		log.Info("Email registered concurrently", logger.Fields(logger.FieldEmail, in.Email))
		s.authEvent(ctx, "register", "duplicate_email")
		return nil, apperrors.DuplicateEmail(in.Email)
	case errors.Is(err, ErrNotInserted) || (err == nil && id == ""):
		log.Error("User not registered", logger.Fields(logger.FieldEmail, in.Email))
		return nil, apperrors.PersistenceFailure("User not registered")
	case err != nil:
		return nil, storeError("insert", err)
	}

	log.Info("User registered", logger.Fields(logger.FieldUserID, id, logger.FieldEmail, in.Email))
	s.authEvent(ctx, "register", "success")
	return &RegisterResult{
		ID:      id,
		Message: fmt.Sprintf("User %s registered successfully", rec.Name),
	}, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, in LoginInput) (res *LoginResult, err error) {
	ctx, op := observability.StartOperation(ctx, serviceName, "login", s.metrics)
	defer func() { op.End(ctx, err) }()
	log := s.log.WithContext(ctx)

	in.normalize()
	if err = validation.Validate(in); err != nil {
		return nil, err
	}

	rec, err := s.findByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		log.Info("Login for unknown email", logger.Fields(logger.FieldEmail, in.Email))
		s.authEvent(ctx, "login", "email_not_found")
		return nil, apperrors.EmailNotFound(in.Email)
	}

	if !s.hasher.Verify(in.Password, rec.PasswordHash) {
		log.Warn("Password is incorrect", logger.Fields(logger.FieldUserID, rec.ID, logger.FieldEmail, in.Email))
		s.authEvent(ctx, "login", "invalid_credentials")
		return nil, apperrors.InvalidCredentials()
	}

	token, err := s.tokens.Issue(rec.TokenSubject())
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("issue token: %w", err))
	}

	res = &LoginResult{Token: token}
	if !in.GetToken {
		pub := rec.Public()
		res.User = &pub
	}
	log.Info("User logged in", logger.Fields(logger.FieldUserID, rec.ID, "token_only", bool(in.GetToken)))
	s.authEvent(ctx, "login", "success")
	return res, nil
}

// GetByID returns one account. A malformed id is rejected before the store
// is consulted.
func (s *Service) GetByID(ctx context.Context, id string) (pub *Public, err error) {
	ctx, op := observability.StartOperation(ctx, serviceName, "get", s.metrics)
	defer func() { op.End(ctx, err) }()

	if !ValidID(id) {
		return nil, apperrors.InvalidID(resource)
	}

	var rec *Record
	err = s.call(ctx, func(ctx context.Context) (err error) {
		rec, err = s.store.FindByID(ctx, id)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		s.log.WithContext(ctx).Info("User not found", logger.Fields("id", id))
		return nil, apperrors.NotFound(resource, id)
	}
	if err != nil {
		return nil, storeError("find by id", err)
	}

	p := rec.Public()
	return &p, nil
}

// ListAll returns every account.
func (s *Service) ListAll(ctx context.Context) (users []Public, err error) {
	ctx, op := observability.StartOperation(ctx, serviceName, "list", s.metrics)
	defer func() { op.End(ctx, err) }()

	var recs []*Record
	err = s.call(ctx, func(ctx context.Context) (err error) {
		recs, err = s.store.List(ctx)
		return err
	})
	if err != nil {
		return nil, storeError("list", err)
	}

	users = make([]Public, 0, len(recs))
	for _, r := range recs {
		users = append(users, r.Public())
	}
	s.log.WithContext(ctx).Info("List of users retrieved", logger.Fields("total", len(users)))
	return users, nil
}

// Update changes the name, surname and nickname of an account. Only the
// fields present in the input are written.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (err error) {
	ctx, op := observability.StartOperation(ctx, serviceName, "update", s.metrics)
	defer func() { op.End(ctx, err) }()
	log := s.log.WithContext(ctx)

	if !ValidID(id) {
		return apperrors.InvalidID(resource)
	}

	p := in.profile()
	if p.Empty() {
		return apperrors.MissingFields("name", "surname", "nickname")
	}
	p.UpdatedAt = s.now().UTC()

	err = s.call(ctx, func(ctx context.Context) error {
		return s.store.UpdateProfile(ctx, id, p)
	})
	if errors.Is(err, ErrNotFound) {
		log.Info("User could not be updated", logger.Fields("id", id))
		return apperrors.NotFound(resource, id)
	}
	if err != nil {
		return storeError("update", err)
	}

	log.Info("User updated", logger.Fields("id", id))
	return nil
}

// findByEmail returns nil, nil when no account has the email.
func (s *Service) findByEmail(ctx context.Context, email string) (*Record, error) {
	var rec *Record
	err := s.call(ctx, func(ctx context.Context) (err error) {
		rec, err = s.store.FindByEmail(ctx, email)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("find by email", err)
	}
	return rec, nil
}

// call runs fn against the store under the operation timeout and, when
// configured, the breaker.
func (s *Service) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Do(func() error { return fn(ctx) })
}

// isStoreFailure reports whether err means the datastore itself misbehaved.
func isStoreFailure(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrDuplicateEmail) &&
		!errors.Is(err, ErrNotInserted) &&
		!errors.Is(err, context.Canceled)
}

func (s *Service) authEvent(ctx context.Context, event, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(ctx, event, outcome)
	}
}

// storeError hides the datastore failure behind a generic error; the cause
// is logged by the response writer.
func storeError(op string, err error) error {
	if errors.Is(err, resilience.ErrOpen) {
		return apperrors.ServiceUnavailable("store").WithCause(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(op).WithCause(err)
	}
	return apperrors.Internal(fmt.Errorf("store %s: %w", op, err))
}
