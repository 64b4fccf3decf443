package libpos

import "time"

// Order statuses used by the backend.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderReady      = "ready"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// A Store is a laundry shop the authenticated account can operate.
type Store struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// An InventoryItem is a stocked good (detergent, hangers, plastic wrap...)
// tracked per store.
type InventoryItem struct {
	ID                string `json:"id,omitempty"`
	StoreID           string `json:"store_id"`
	Name              string `json:"name"`
	SKU               string `json:"sku,omitempty"`
	UnitPrice         int64  `json:"unit_price"` // minor currency units
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold,omitempty"`
}

// LowStock returns true when the quantity reached the restock threshold.
func (i InventoryItem) LowStock() bool {
	return i.LowStockThreshold > 0 && i.Quantity <= i.LowStockThreshold
}

// A Service is a billable laundry service (wash & fold, dry cleaning...).
type Service struct {
	ID              string `json:"id,omitempty"`
	StoreID         string `json:"store_id"`
	Name            string `json:"name"`
	UnitPrice       int64  `json:"unit_price"`
	Unit            string `json:"unit"` // kg, piece, bundle
	TurnaroundHours int    `json:"turnaround_hours,omitempty"`
}

// A PaymentMethod is a way customers can settle an order.
type PaymentMethod struct {
	ID      string `json:"id,omitempty"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"` // cash, transfer, ewallet
	Enabled bool   `json:"enabled"`
}

// An OrderLine is a single service position on an order.
type OrderLine struct {
	ServiceName string  `json:"service_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   int64   `json:"unit_price"`
	Amount      int64   `json:"amount"`
}

// An Order is a customer drop-off. Orders are created and advanced by the
// backend; the terminal only reads them.
type Order struct {
	ID            string      `json:"id"`
	StoreID       string      `json:"store_id"`
	Reference     string      `json:"reference"`
	Customer      string      `json:"customer"`
	Status        string      `json:"status"`
	Total         int64       `json:"total"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Lines         []OrderLine `json:"lines,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// BadgeCounts are the per-status order counts surfaced on the dashboard.
type BadgeCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Ready      int `json:"ready"`
}

// Total returns the overall badge count.
func (b BadgeCounts) Total() int {
	return b.Pending + b.Processing + b.Ready
}

// CountBadges derives badge counts from a list of orders. Completed and
// cancelled orders do not contribute.
func CountBadges(orders []Order) (b BadgeCounts) {
	for _, o := range orders {
		switch o.Status {
		case OrderPending:
			b.Pending++
		case OrderProcessing:
			b.Processing++
		case OrderReady:
			b.Ready++
		}
	}
	return b
}

// DashboardMetrics summarizes a store's current day.
type DashboardMetrics struct {
	StoreID      string      `json:"store_id"`
	OrdersToday  int         `json:"orders_today"`
	RevenueToday int64       `json:"revenue_today"`
	Badges       BadgeCounts `json:"badges"`
}
