package filestore_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0-shady/Task-Manager-django/internal/filestore"
	"github.com/s0-shady/Task-Manager-django/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	m.Run()
}

// TestStore_SaveOpen тестирует сохранение и чтение файла
func TestStore_SaveOpen(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	handle, err := store.Save([]byte("содержимое отчёта"), "отчёт.pdf")
	require.NoError(t, err)

	// хэндл лежит под attachments/ГГГГ/ММ/ДД и содержит имя файла
	assert.True(t, strings.HasPrefix(handle, "attachments"+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(handle, "_отчёт.pdf"))

	data, err := store.Open(handle)
	require.NoError(t, err)
	assert.Equal(t, []byte("содержимое отчёта"), data)
}

// TestStore_SaveSanitizesFilename тестирует обрезку путей в имени файла
func TestStore_SaveSanitizesFilename(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	handle, err := store.Save([]byte("x"), "../../etc/passwd")
	require.NoError(t, err)

	// из имени остаётся только базовая часть
	assert.True(t, strings.HasSuffix(handle, "_passwd"))
	assert.NotContains(t, handle, "..")
}

// TestStore_Delete тестирует удаление файла
func TestStore_Delete(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	handle, err := store.Save([]byte("x"), "a.txt")
	require.NoError(t, err)

	require.NoError(t, store.Delete(handle))
	_, err = store.Open(handle)
	assert.Error(t, err)

	// повторное удаление не ошибка
	assert.NoError(t, store.Delete(handle))
}

// TestStore_Walk тестирует обход сохранённых хэндлов
func TestStore_Walk(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save([]byte("1"), "a.txt")
	require.NoError(t, err)
	second, err := store.Save([]byte("2"), "b.txt")
	require.NoError(t, err)

	seen := []string{}
	require.NoError(t, store.Walk(func(handle string, modTime time.Time) error {
		seen = append(seen, handle)
		assert.False(t, modTime.IsZero())
		return nil
	}))

	assert.ElementsMatch(t, []string{first, second}, seen)
}

// TestStore_WalkEmpty тестирует обход пустого хранилища
func TestStore_WalkEmpty(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	count := 0
	require.NoError(t, store.Walk(func(handle string, modTime time.Time) error {
		count++
		return nil
	}))
	assert.Zero(t, count)
}
