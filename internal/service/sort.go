package service

import (
	"fmt"
	"strings"

	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

// допустимые значения sort_by и их ключи сортировки:
// логическое поле priority сортирует по весу приоритета
var sortFieldMap = map[string]repository.SortField{
	"id":              repository.SortByID,
	"title":           repository.SortByTitle,
	"date_added":      repository.SortByDateAdded,
	"priority":        repository.SortByWeight,
	"completion_date": repository.SortByCompletionDate,
}

// порядок перечисления в сообщении об ошибке фиксированный
var allowedSortFields = []string{"id", "title", "date_added", "priority", "completion_date"}

func IsValidSortField(sortBy string) bool {
	_, ok := sortFieldMap[sortBy]
	return ok
}

// NormalizeSortOrder приводит sort_order к asc/desc.
// Любое другое значение молча заменяется на desc.
func NormalizeSortOrder(sortOrder string) string {
	if sortOrder != "asc" && sortOrder != "desc" {
		return "desc"
	}
	return sortOrder
}

func invalidSortByError() *BusinessError {
	return &BusinessError{
		Code:    CodeValidationError,
		Message: fmt.Sprintf("Invalid sort_by. Allowed: ['%s']", strings.Join(allowedSortFields, "', '")),
		Details: map[string]any{
			"field":   "sort_by",
			"allowed": allowedSortFields,
		},
	}
}

func buildOrderBy(sortBy, sortOrder string) []repository.Order {
	field := sortFieldMap[sortBy]
	return []repository.Order{{Field: field, Desc: sortOrder == "desc"}}
}
