package types

type Side string

type OrderType string

type OrderStatus string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"

	TypeMarket OrderType = "MARKET"
	TypeLimit  OrderType = "LIMIT"

	OrderPending  OrderStatus = "ORDER_PENDING"
	OrderExecuted OrderStatus = "ORDER_EXECUTED"
	OrderCanceled OrderStatus = "ORDER_CANCELED"
)
