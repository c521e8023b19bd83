package mongodb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/resilience"
)

// Client wraps a connected mongo.Client bound to one database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger

	mu           sync.Mutex
	disconnected bool
}

// Connect opens a client and pings the primary, retrying transient failures
// with exponential backoff.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mongodb config: %w", err)
	}

	attempts := 0
	c, err := resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		Jitter:      0.1,
		RetryIf:     isRetryable,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			log.Warn("MongoDB connection attempt failed, retrying", map[string]interface{}{
				"attempt":         attempt,
				logger.FieldError: err.Error(),
				"backoff":         backoff.String(),
			})
		},
	}, func(ctx context.Context) (*Client, error) {
		attempts++
		return connect(ctx, cfg, log)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("mongodb connection canceled: %w", err)
		}
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	log.Info("MongoDB connection established", map[string]interface{}{
		"attempt":  attempts,
		"database": cfg.Database,
	})
	return c, nil
}

func connect(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.connectTimeout()).
		SetServerSelectionTimeout(cfg.serverSelectionTimeout()).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMonitor(commandMonitor(log))
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if tlsCfg != nil {
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.StrictAPI {
		opts.SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).
			SetStrict(true).
			SetDeprecationErrors(true))
	}

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := mc.Ping(ctx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Client{
		client: mc,
		db:     mc.Database(cfg.Database),
		log:    log,
	}, nil
}

// NewFromMongo wraps an already connected driver client.
func NewFromMongo(mc *mongo.Client, database string, log *logger.Logger) *Client {
	return &Client{
		client: mc,
		db:     mc.Database(database),
		log:    log,
	}
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database { return c.db }

// Collection returns a handle to a collection of the configured database.
func (c *Client) Collection(name string) *mongo.Collection { return c.db.Collection(name) }

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes all pooled connections. Safe to call multiple times.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disconnected {
		return nil
	}
	c.log.Info("Closing the database connection")
	c.disconnected = true
	return c.client.Disconnect(ctx)
}

// commandMonitor logs failed commands at warn and successful ones at debug.
func commandMonitor(log *logger.Logger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(ctx context.Context, e *event.CommandSucceededEvent) {
			log.WithContext(ctx).Debug("mongo command", map[string]interface{}{
				"command":            e.CommandName,
				"database":           e.DatabaseName,
				logger.FieldDuration: e.Duration.Milliseconds(),
			})
		},
		Failed: func(ctx context.Context, e *event.CommandFailedEvent) {
			log.WithContext(ctx).Warn("mongo command failed", map[string]interface{}{
				"command":            e.CommandName,
				"database":           e.DatabaseName,
				logger.FieldDuration: e.Duration.Milliseconds(),
				logger.FieldError:    e.Failure,
			})
		},
	}
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "server selection") || strings.Contains(msg, "connection refused")
}
