package model

// Order statuses. Orders move pending → processing → ready → completed;
// cancelled is terminal from any non-completed status.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderReady      = "ready"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// A Store represents a database record.
type Store struct {
	Base `msgpack:",inline" storm:"inline"`

	Name    string `msgpack:"name" storm:"unique"`
	Address string `msgpack:"address,omitempty"`
	Phone   string `msgpack:"phone,omitempty"`
}

// An InventoryItem represents a database record.
type InventoryItem struct {
	Base `msgpack:",inline" storm:"inline"`

	StoreID           string `msgpack:"store_id" storm:"index"`
	Name              string `msgpack:"name"`
	SKU               string `msgpack:"sku,omitempty"`
	UnitPrice         int64  `msgpack:"unit_price"`
	Quantity          int    `msgpack:"quantity"`
	LowStockThreshold int    `msgpack:"low_stock_threshold,omitempty"`
}

// A Service represents a database record.
type Service struct {
	Base `msgpack:",inline" storm:"inline"`

	StoreID         string `msgpack:"store_id" storm:"index"`
	Name            string `msgpack:"name"`
	UnitPrice       int64  `msgpack:"unit_price"`
	Unit            string `msgpack:"unit"`
	TurnaroundHours int    `msgpack:"turnaround_hours,omitempty"`
}

// A PaymentMethod represents a database record.
type PaymentMethod struct {
	Base `msgpack:",inline" storm:"inline"`

	StoreID string `msgpack:"store_id" storm:"index"`
	Name    string `msgpack:"name"`
	Kind    string `msgpack:"kind"`
	Enabled bool   `msgpack:"enabled"`
}

// An OrderLine is a single service position on an order.
type OrderLine struct {
	ServiceName string  `msgpack:"service_name"`
	Quantity    float64 `msgpack:"quantity"`
	UnitPrice   int64   `msgpack:"unit_price"`
	Amount      int64   `msgpack:"amount"`
}

// An Order represents a database record.
type Order struct {
	Base `msgpack:",inline" storm:"inline"`

	StoreID       string      `msgpack:"store_id"  storm:"index"`
	Reference     string      `msgpack:"reference" storm:"unique"`
	Customer      string      `msgpack:"customer"`
	Status        string      `msgpack:"status"    storm:"index"`
	Total         int64       `msgpack:"total"`
	PaymentMethod string      `msgpack:"payment_method,omitempty"`
	Lines         []OrderLine `msgpack:"lines,omitempty"`
}
