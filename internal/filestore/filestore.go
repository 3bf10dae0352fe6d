package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
)

// Store кладёт файлы вложений на диск под непрозрачным для вызывающего
// хэндлом вида attachments/ГГГГ/ММ/ДД/<uuid>_<имя>. Хэндл хранится
// в колонке file таблицы attachments.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога хранилища: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Save(data []byte, filename string) (string, error) {
	now := time.Now()
	handle := filepath.Join(
		"attachments",
		now.Format("2006"), now.Format("01"), now.Format("02"),
		uuid.NewString()[:8]+"_"+sanitize(filename),
	)

	full := filepath.Join(s.dir, handle)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("создание каталога вложений: %w", err)
	}

	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("запись файла вложения: %w", err)
	}

	return handle, nil
}

func (s *Store) Open(handle string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, handle))
	if err != nil {
		return nil, fmt.Errorf("чтение файла вложения: %w", err)
	}
	return data, nil
}

// Delete удаляет файл по хэндлу. Отсутствующий файл не считается ошибкой.
func (s *Store) Delete(handle string) error {
	err := os.Remove(filepath.Join(s.dir, handle))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("удаление файла вложения: %w", err)
	}
	return nil
}

// Dir возвращает корень хранилища (нужен фоновому уборщику)
func (s *Store) Dir() string {
	return s.dir
}

// Walk обходит все сохранённые хэндлы вместе со временем записи файла
func (s *Store) Walk(fn func(handle string, modTime time.Time) error) error {
	root := filepath.Join(s.dir, "attachments")
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			logger.Warn("Filestore: ошибка обхода каталога")
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		return fn(rel, info.ModTime())
	})
}

func sanitize(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "." || name == "" {
		name = "file"
	}
	return name
}
