package domain

// OpKind вид операции над корзиной
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpUpdate OpKind = "update"
	OpRemove OpKind = "remove"
	OpSync   OpKind = "sync"
)

// OpKey типизированный идентификатор операции для отслеживания
// per-operation состояния загрузки. Заменяет строковую конкатенацию
// вида "update_42_inc" и исключает коллизии ключей.
type OpKey struct {
	Kind      OpKind
	ProductID int64 // 0 для операций над корзиной целиком (sync)
}
