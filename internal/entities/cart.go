package entities

// CartItem - строка серверной корзины, привязанной к сессии покупателя.
type CartItem struct {
	ProductID   string
	Name        string
	Description string
	Quantity    int
	UnitPrice   int64
}
