// Package serializer renders database records in the wire format expected
// by the terminal client.
package serializer

import (
	"washpos/internal/model"
)

// User serializes the render of a user.
func User(m *model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":           m.ID,
		"created_at":   m.CreatedAt.UTC(),
		"email":        m.Email,
		"display_name": m.DisplayName,
		"role":         m.Role,
	}
}

// Token serializes the render of an issued token pair.
func Token(accessToken string, expiresAt int64, session *model.Session, user *model.User) map[string]interface{} {
	return map[string]interface{}{
		"access_token":  accessToken,
		"token_type":    "bearer",
		"expires_at":    expiresAt,
		"refresh_token": session.RefreshToken,
		"user":          User(user),
	}
}

// Store serializes the render of a store.
func Store(m *model.Store) map[string]interface{} {
	return map[string]interface{}{
		"id":      m.ID,
		"name":    m.Name,
		"address": m.Address,
		"phone":   m.Phone,
	}
}

// Stores serializes the render of stores.
func Stores(m []*model.Store) []map[string]interface{} {
	stores := make([]map[string]interface{}, len(m))
	for i, s := range m {
		stores[i] = Store(s)
	}
	return stores
}

// InventoryItem serializes the render of an inventory item.
func InventoryItem(m *model.InventoryItem) map[string]interface{} {
	return map[string]interface{}{
		"id":                  m.ID,
		"store_id":            m.StoreID,
		"name":                m.Name,
		"sku":                 m.SKU,
		"unit_price":          m.UnitPrice,
		"quantity":            m.Quantity,
		"low_stock_threshold": m.LowStockThreshold,
	}
}

// Inventory serializes the render of inventory items.
func Inventory(m []*model.InventoryItem) []map[string]interface{} {
	items := make([]map[string]interface{}, len(m))
	for i, item := range m {
		items[i] = InventoryItem(item)
	}
	return items
}

// Service serializes the render of a service.
func Service(m *model.Service) map[string]interface{} {
	return map[string]interface{}{
		"id":               m.ID,
		"store_id":         m.StoreID,
		"name":             m.Name,
		"unit_price":       m.UnitPrice,
		"unit":             m.Unit,
		"turnaround_hours": m.TurnaroundHours,
	}
}

// Services serializes the render of services.
func Services(m []*model.Service) []map[string]interface{} {
	services := make([]map[string]interface{}, len(m))
	for i, s := range m {
		services[i] = Service(s)
	}
	return services
}

// PaymentMethod serializes the render of a payment method.
func PaymentMethod(m *model.PaymentMethod) map[string]interface{} {
	return map[string]interface{}{
		"id":       m.ID,
		"store_id": m.StoreID,
		"name":     m.Name,
		"kind":     m.Kind,
		"enabled":  m.Enabled,
	}
}

// PaymentMethods serializes the render of payment methods.
func PaymentMethods(m []*model.PaymentMethod) []map[string]interface{} {
	pms := make([]map[string]interface{}, len(m))
	for i, pm := range m {
		pms[i] = PaymentMethod(pm)
	}
	return pms
}

// Order serializes the render of an order.
func Order(m *model.Order) map[string]interface{} {
	lines := make([]map[string]interface{}, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = map[string]interface{}{
			"service_name": l.ServiceName,
			"quantity":     l.Quantity,
			"unit_price":   l.UnitPrice,
			"amount":       l.Amount,
		}
	}

	return map[string]interface{}{
		"id":             m.ID,
		"store_id":       m.StoreID,
		"reference":      m.Reference,
		"customer":       m.Customer,
		"status":         m.Status,
		"total":          m.Total,
		"payment_method": m.PaymentMethod,
		"lines":          lines,
		"created_at":     m.CreatedAt.UTC(),
	}
}

// Orders serializes the render of orders.
func Orders(m []*model.Order) []map[string]interface{} {
	orders := make([]map[string]interface{}, len(m))
	for i, o := range m {
		orders[i] = Order(o)
	}
	return orders
}
