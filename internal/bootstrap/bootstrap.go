// Package bootstrap turns a loaded Config into a ready audit service. Both
// the HTTP server and the CLI start from here.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/growthaudit/internal/application"
	appai "github.com/bryanwahyu/growthaudit/internal/application/ai"
	appaudit "github.com/bryanwahyu/growthaudit/internal/application/audit"
	"github.com/bryanwahyu/growthaudit/internal/config"
	"github.com/bryanwahyu/growthaudit/internal/domain/kv"
	mysqlp "github.com/bryanwahyu/growthaudit/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/growthaudit/internal/infra/db/postgres"
	"github.com/bryanwahyu/growthaudit/internal/infra/db/sqlite"
	"github.com/bryanwahyu/growthaudit/internal/infra/storage"
	"github.com/bryanwahyu/growthaudit/internal/logging"
)

// Store is an opened kv backend plus whatever must be released on shutdown.
type Store struct {
	kv.Store
	Driver string
	close  func() error
}

// Check reports backend health; every driver implements kv.Checker.
func (s *Store) Check(ctx context.Context) error {
	if c, ok := s.Store.(kv.Checker); ok {
		return c.Check(ctx)
	}
	return nil
}

// Close releases the backend connection, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStore connects the storage driver named in cfg.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	st := cfg.Storage
	switch st.Driver {
	case "memory":
		return &Store{Store: storage.NewMemory(), Driver: st.Driver}, nil

	case "sqlite":
		repo, err := sqlite.Open(ctx, st.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite open error: %w", err)
		}
		return &Store{Store: repo, Driver: st.Driver, close: repo.Close}, nil

	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN(), mysqlp.Pool{
			MaxOpenConns:    st.Database.MaxOpenConns,
			MaxIdleConns:    st.Database.MaxIdleConns,
			ConnMaxLifetime: st.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("mysql connect error: %w", err)
		}
		repo := mysqlp.NewKVRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{Store: repo, Driver: st.Driver, close: db.Close}, nil

	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN(), postgresp.Pool{
			MaxOpenConns:    st.Database.MaxOpenConns,
			MaxIdleConns:    st.Database.MaxIdleConns,
			ConnMaxLifetime: st.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres connect error: %w", err)
		}
		repo := postgresp.NewKVRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{Store: repo, Driver: st.Driver, close: db.Close}, nil

	case "minio":
		s, err := storage.New(ctx,
			st.Minio.Endpoint,
			st.Minio.Region,
			st.Minio.BucketName,
			st.Minio.AccessKey,
			st.Minio.SecretKey,
			st.Minio.UseSSL,
		)
		if err != nil {
			return nil, fmt.Errorf("minio init error: %w", err)
		}
		return &Store{Store: s, Driver: st.Driver}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", st.Driver)
	}
}

// NewService builds the analyzer named in cfg and the audit service on top of store.
func NewService(ctx context.Context, cfg *config.Config, store kv.Store) (*appaudit.Service, error) {
	an := cfg.Analyzer
	analyzer, err := appai.NewAnalyzer(ctx, appai.Options{
		Provider:      an.Provider,
		OpenAIKey:     an.OpenAI.APIKey,
		OpenAIModel:   an.OpenAI.Model,
		OpenAIBaseURL: an.OpenAI.BaseURL,
		GeminiKey:     an.Gemini.APIKey,
		GeminiModel:   an.Gemini.Model,
	})
	if err != nil {
		return nil, err
	}
	logging.Log.WithField("provider", an.Provider).WithField("storage", cfg.Storage.Driver).Debug("audit service ready")

	return &appaudit.Service{
		Analyzer:      analyzer,
		Store:         store,
		Clock:         application.SystemClock{},
		HistoryLimit:  cfg.History.Limit,
		RequireUnlock: cfg.Gate.RequireUnlock,
		StepDelay:     an.StepDelay,
		ConsentDelay:  cfg.Gate.ConsentDelay,
		FollowURL:     cfg.Gate.FollowURL,
	}, nil
}
