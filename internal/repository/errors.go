package repository

import "errors"

var (
	// ErrNotFound - запись отсутствует или отфильтрована предикатом (deleted / статус)
	ErrNotFound = errors.New("запись не найдена")
	// ErrConstraint - нарушение ограничения целостности на уровне хранилища
	ErrConstraint = errors.New("нарушение ограничения целостности")
)
