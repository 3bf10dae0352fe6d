package worker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0-shady/Task-Manager-django/internal/filestore"
	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/worker"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	m.Run()
}

type staticLister struct {
	handles []string
}

func (l *staticLister) ListHandles(ctx context.Context) ([]string, error) {
	return l.handles, nil
}

// backdate сдвигает время записи файла за пределы окна уборки
func backdate(t *testing.T, store *filestore.Store, handle string) {
	t.Helper()
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(store.Dir(), handle), old, old))
}

// TestOrphanSweeper_Sweep тестирует удаление файлов без строк вложений
func TestOrphanSweeper_Sweep(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	referenced, err := store.Save([]byte("нужный"), "referenced.txt")
	require.NoError(t, err)
	orphan, err := store.Save([]byte("осиротевший"), "orphan.txt")
	require.NoError(t, err)
	backdate(t, store, referenced)
	backdate(t, store, orphan)

	sweeper := worker.NewOrphanSweeper(&staticLister{handles: []string{referenced}}, store, nil, nil)
	sweeper.Sweep(context.Background())

	// файл со строкой остаётся, осиротевший удалён
	_, err = store.Open(referenced)
	assert.NoError(t, err)
	_, err = store.Open(orphan)
	assert.Error(t, err)
}

// TestOrphanSweeper_KeepsFreshFiles тестирует окно для вложений в процессе
// создания: файл пишется раньше строки, и уборка не должна удалять свежий
// файл, строка которого ещё не зафиксирована
func TestOrphanSweeper_KeepsFreshFiles(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	// файл записан, строка вложения ещё не вставлена
	fresh, err := store.Save([]byte("в процессе"), "uploading.txt")
	require.NoError(t, err)

	sweeper := worker.NewOrphanSweeper(&staticLister{}, store, nil, nil)
	sweeper.Sweep(context.Background())

	data, err := store.Open(fresh)
	require.NoError(t, err)
	assert.Equal(t, []byte("в процессе"), data)

	// тот же файл за пределами окна уже считается осиротевшим
	backdate(t, store, fresh)
	sweeper.Sweep(context.Background())
	_, err = store.Open(fresh)
	assert.Error(t, err)
}

// TestOrphanSweeper_BatchLimit тестирует ограничение на размер прохода
func TestOrphanSweeper_BatchLimit(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		handle, err := store.Save([]byte("x"), "orphan.txt")
		require.NoError(t, err)
		backdate(t, store, handle)
	}

	batch := 2
	sweeper := worker.NewOrphanSweeper(&staticLister{}, store, nil, &batch)
	sweeper.Sweep(context.Background())

	remaining := 0
	require.NoError(t, store.Walk(func(handle string, modTime time.Time) error {
		remaining++
		return nil
	}))
	assert.Equal(t, 3, remaining)
}
