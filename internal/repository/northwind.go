package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

// Northwind bundles one repository per entity
type Northwind struct {
	Categories   Repository[domain.Category]
	Customers    Repository[domain.Customer]
	Employees    Repository[domain.Employee]
	Shippers     Repository[domain.Shipper]
	Suppliers    Repository[domain.Supplier]
	Regions      Repository[domain.Region]
	Territories  Repository[domain.Territory]
	Products     Repository[domain.Product]
	Orders       Repository[domain.Order]
	OrderDetails Repository[domain.OrderDetail]
	Users        Repository[domain.User]
	AuditLogs    Repository[domain.AuditLog]
}

// NewSQLNorthwind creates SQL repositories sharing db. Audit logs are never
// cached.
func NewSQLNorthwind(db *sqlx.DB, opts ...Option) *Northwind {
	return &Northwind{
		Categories:   NewSQLRepository[domain.Category](db, opts...),
		Customers:    NewSQLRepository[domain.Customer](db, opts...),
		Employees:    NewSQLRepository[domain.Employee](db, opts...),
		Shippers:     NewSQLRepository[domain.Shipper](db, opts...),
		Suppliers:    NewSQLRepository[domain.Supplier](db, opts...),
		Regions:      NewSQLRepository[domain.Region](db, opts...),
		Territories:  NewSQLRepository[domain.Territory](db, opts...),
		Products:     NewSQLRepository[domain.Product](db, opts...),
		Orders:       NewSQLRepository[domain.Order](db, opts...),
		OrderDetails: NewSQLRepository[domain.OrderDetail](db, opts...),
		Users:        NewSQLRepository[domain.User](db, opts...),
		AuditLogs:    NewSQLRepository[domain.AuditLog](db),
	}
}

// NewMemoryNorthwind creates empty in-memory repositories
func NewMemoryNorthwind() *Northwind {
	return &Northwind{
		Categories:   NewMemoryRepository[domain.Category](),
		Customers:    NewMemoryRepository[domain.Customer](),
		Employees:    NewMemoryRepository[domain.Employee](),
		Shippers:     NewMemoryRepository[domain.Shipper](),
		Suppliers:    NewMemoryRepository[domain.Supplier](),
		Regions:      NewMemoryRepository[domain.Region](),
		Territories:  NewMemoryRepository[domain.Territory](),
		Products:     NewMemoryRepository[domain.Product](),
		Orders:       NewMemoryRepository[domain.Order](),
		OrderDetails: NewMemoryRepository[domain.OrderDetail](),
		Users:        NewMemoryRepository[domain.User](),
		AuditLogs:    NewMemoryRepository[domain.AuditLog](),
	}
}

// Instrument wraps every repository with an Observer
func (n *Northwind) Instrument(o Observer) *Northwind {
	return &Northwind{
		Categories:   Instrument(n.Categories, o),
		Customers:    Instrument(n.Customers, o),
		Employees:    Instrument(n.Employees, o),
		Shippers:     Instrument(n.Shippers, o),
		Suppliers:    Instrument(n.Suppliers, o),
		Regions:      Instrument(n.Regions, o),
		Territories:  Instrument(n.Territories, o),
		Products:     Instrument(n.Products, o),
		Orders:       Instrument(n.Orders, o),
		OrderDetails: Instrument(n.OrderDetails, o),
		Users:        Instrument(n.Users, o),
		AuditLogs:    Instrument(n.AuditLogs, o),
	}
}
