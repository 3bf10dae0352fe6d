package repository

// SortField - логическое поле сортировки. Репозитории сами сопоставляют
// его с колонкой (в Postgres) или компаратором (in-memory), поэтому
// сырой пользовательский ввод сюда не попадает.
type SortField string

const (
	SortByID             SortField = "id"
	SortByTitle          SortField = "title"
	SortByDateAdded      SortField = "date_added"
	SortByWeight         SortField = "weight"
	SortByCompletionDate SortField = "completion_date"
	SortByUploadedAt     SortField = "uploaded_at"
)

type Order struct {
	Field SortField
	Desc  bool
}

// канонические порядки по умолчанию
var (
	DefaultPendingOrder   = []Order{{Field: SortByWeight, Desc: true}, {Field: SortByDateAdded}}
	DefaultCompletedOrder = []Order{{Field: SortByCompletionDate, Desc: true}}
	DefaultPriorityOrder  = []Order{{Field: SortByWeight, Desc: true}}
	DefaultUploadedOrder  = []Order{{Field: SortByUploadedAt, Desc: true}}
)
