package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

// PoolConfig - настройки пула соединений. Нулевые значения заменяются
// значениями по умолчанию.
type PoolConfig struct {
	MaxConns    int
	MinConns    int
	IdleTimeout time.Duration
}

func New(ctx context.Context, connString string, settings PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if settings.MaxConns == 0 {
		settings.MaxConns = 10
	}
	if settings.MinConns == 0 {
		settings.MinConns = 2
	}
	if settings.IdleTimeout == 0 {
		settings.IdleTimeout = time.Minute * 5
	}

	config.MaxConns = int32(settings.MaxConns)
	config.MinConns = int32(settings.MinConns)
	config.MaxConnIdleTime = settings.IdleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connString: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Migrate применяет встроенные миграции через golang-migrate
func (s *Storage) Migrate() error {
	logger.Info("Repository: Применение миграций")

	m, err := s.migrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

// Down откатывает все миграции (используется в тестах)
func (s *Storage) Down() error {
	logger.Info("Repository: Откат миграций")

	m, err := s.migrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка отката миграций", err)
		return fmt.Errorf("откат миграций: %w", err)
	}

	return nil
}

func (s *Storage) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		logger.Error("Repository: Ошибка чтения миграций", err)
		return nil, fmt.Errorf("чтение миграций: %w", err)
	}

	// драйвер golang-migrate для pgx/v5 регистрируется под схемой pgx5
	url := s.connString
	if strings.HasPrefix(url, "postgres://") {
		url = "pgx5://" + strings.TrimPrefix(url, "postgres://")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		logger.Error("Repository: Ошибка создания мигратора", err)
		return nil, fmt.Errorf("создание мигратора: %w", err)
	}

	return m, nil
}

// columnFor сопоставляет логическое поле сортировки колонке запроса.
// Поля приходят только из допустимого набора сервисного слоя.
func columnFor(field repository.SortField) string {
	switch field {
	case repository.SortByID:
		return "t.id"
	case repository.SortByTitle:
		return "t.title"
	case repository.SortByDateAdded:
		return "t.date_added"
	case repository.SortByWeight:
		return "p.weight"
	case repository.SortByCompletionDate:
		return "t.completion_date"
	case repository.SortByUploadedAt:
		return "a.uploaded_at"
	}
	return "t.id"
}

func orderClause(orders []repository.Order, defaults []repository.Order) string {
	if len(orders) == 0 {
		orders = defaults
	}

	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, columnFor(o.Field)+" "+dir)
	}

	return strings.Join(parts, ", ")
}
