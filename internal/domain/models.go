package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity is implemented by every persistence-backed record. All entities are
// keyed by an integer ID assigned by the store on insert.
type Entity[T any] interface {
	TableName() string
	GetID() int64
	WithID(id int64) T
	// Clone returns a copy sharing no pointers with the receiver
	Clone() T
}

func clonePtr[P any](p *P) *P {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Category groups products
type Category struct {
	ID           int64  `db:"id"`            // Unique identifier
	CategoryName string `db:"category_name"` // Unique display name
	Description  string `db:"description"`   // Free text description
}

func (Category) TableName() string { return "categories" }
func (c Category) GetID() int64 { return c.ID }
func (c Category) WithID(id int64) Category { c.ID = id; return c }
func (c Category) Clone() Category { return c }

// Customer is a company placing orders
type Customer struct {
	ID           int64  `db:"id"`
	CompanyName  string `db:"company_name"` // Unique company name
	ContactName  string `db:"contact_name"`
	ContactTitle string `db:"contact_title"`
	Address      string `db:"address"`
	City         string `db:"city"`
	Region       string `db:"region"`
	PostalCode   string `db:"postal_code"`
	Country      string `db:"country"`
	Phone        string `db:"phone"`
}

func (Customer) TableName() string { return "customers" }
func (c Customer) GetID() int64 { return c.ID }
func (c Customer) WithID(id int64) Customer { c.ID = id; return c }
func (c Customer) Clone() Customer { return c }

// Employee is a member of staff handling orders
type Employee struct {
	ID              int64      `db:"id"`
	LastName        string     `db:"last_name"`
	FirstName       string     `db:"first_name"`
	Title           string     `db:"title"`
	TitleOfCourtesy string     `db:"title_of_courtesy"`
	BirthDate       *time.Time `db:"birth_date"`
	HireDate        *time.Time `db:"hire_date"`
	Address         string     `db:"address"`
	City            string     `db:"city"`
	Region          string     `db:"region"`
	PostalCode      string     `db:"postal_code"`
	Country         string     `db:"country"`
	HomePhone       string     `db:"home_phone"`
	ReportsTo       *int64     `db:"reports_to"` // Manager employee ID (optional)
}

func (Employee) TableName() string { return "employees" }
func (e Employee) GetID() int64 { return e.ID }
func (e Employee) WithID(id int64) Employee { e.ID = id; return e }

func (e Employee) Clone() Employee {
	e.BirthDate = clonePtr(e.BirthDate)
	e.HireDate = clonePtr(e.HireDate)
	e.ReportsTo = clonePtr(e.ReportsTo)
	return e
}

// Shipper delivers orders
type Shipper struct {
	ID          int64  `db:"id"`
	CompanyName string `db:"company_name"` // Unique company name
	Phone       string `db:"phone"`
}

func (Shipper) TableName() string { return "shippers" }
func (s Shipper) GetID() int64 { return s.ID }
func (s Shipper) WithID(id int64) Shipper { s.ID = id; return s }
func (s Shipper) Clone() Shipper { return s }

// Supplier provides products
type Supplier struct {
	ID           int64  `db:"id"`
	CompanyName  string `db:"company_name"` // Unique company name
	ContactName  string `db:"contact_name"`
	ContactTitle string `db:"contact_title"`
	Address      string `db:"address"`
	City         string `db:"city"`
	Region       string `db:"region"`
	PostalCode   string `db:"postal_code"`
	Country      string `db:"country"`
	Phone        string `db:"phone"`
}

func (Supplier) TableName() string { return "suppliers" }
func (s Supplier) GetID() int64 { return s.ID }
func (s Supplier) WithID(id int64) Supplier { s.ID = id; return s }
func (s Supplier) Clone() Supplier { return s }

// Region is a sales region containing territories
type Region struct {
	ID                int64  `db:"id"`
	RegionDescription string `db:"region_description"` // Unique description
}

func (Region) TableName() string { return "regions" }
func (r Region) GetID() int64 { return r.ID }
func (r Region) WithID(id int64) Region { r.ID = id; return r }
func (r Region) Clone() Region { return r }

// Territory is a sales territory within a region
type Territory struct {
	ID                   int64  `db:"id"`
	TerritoryDescription string `db:"territory_description"` // Unique description
	RegionID             int64  `db:"region_id"`             // Foreign key to Region
}

func (Territory) TableName() string { return "territories" }
func (t Territory) GetID() int64 { return t.ID }
func (t Territory) WithID(id int64) Territory { t.ID = id; return t }
func (t Territory) Clone() Territory { return t }

// Product is an item that can be ordered
type Product struct {
	ID              int64           `db:"id"`
	ProductName     string          `db:"product_name"` // Unique product name
	SupplierID      *int64          `db:"supplier_id"`  // Foreign key to Supplier (optional)
	CategoryID      *int64          `db:"category_id"`  // Foreign key to Category (optional)
	QuantityPerUnit string          `db:"quantity_per_unit"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	UnitsInStock    int             `db:"units_in_stock"`
	UnitsOnOrder    int             `db:"units_on_order"`
	ReorderLevel    int             `db:"reorder_level"`
	Discontinued    bool            `db:"discontinued"`
}

func (Product) TableName() string { return "products" }
func (p Product) GetID() int64 { return p.ID }
func (p Product) WithID(id int64) Product { p.ID = id; return p }

func (p Product) Clone() Product {
	p.SupplierID = clonePtr(p.SupplierID)
	p.CategoryID = clonePtr(p.CategoryID)
	return p
}

// Order is a customer order
type Order struct {
	ID             int64           `db:"id"`
	CustomerID     int64           `db:"customer_id"` // Foreign key to Customer
	EmployeeID     *int64          `db:"employee_id"` // Foreign key to Employee (optional)
	OrderDate      *time.Time      `db:"order_date"`
	RequiredDate   *time.Time      `db:"required_date"`
	ShippedDate    *time.Time      `db:"shipped_date"`
	ShipVia        *int64          `db:"ship_via"` // Foreign key to Shipper (optional)
	Freight        decimal.Decimal `db:"freight"`
	ShipName       string          `db:"ship_name"`
	ShipAddress    string          `db:"ship_address"`
	ShipCity       string          `db:"ship_city"`
	ShipRegion     string          `db:"ship_region"`
	ShipPostalCode string          `db:"ship_postal_code"`
	ShipCountry    string          `db:"ship_country"`
}

func (Order) TableName() string { return "orders" }
func (o Order) GetID() int64 { return o.ID }
func (o Order) WithID(id int64) Order { o.ID = id; return o }

func (o Order) Clone() Order {
	o.EmployeeID = clonePtr(o.EmployeeID)
	o.OrderDate = clonePtr(o.OrderDate)
	o.RequiredDate = clonePtr(o.RequiredDate)
	o.ShippedDate = clonePtr(o.ShippedDate)
	o.ShipVia = clonePtr(o.ShipVia)
	return o
}

// OrderDetail is a single order line. (OrderID, ProductID) is unique.
type OrderDetail struct {
	ID        int64           `db:"id"`
	OrderID   int64           `db:"order_id"`   // Foreign key to Order
	ProductID int64           `db:"product_id"` // Foreign key to Product
	UnitPrice decimal.Decimal `db:"unit_price"`
	Quantity  int             `db:"quantity"`
	Discount  float64         `db:"discount"` // Fraction between 0 and 1
}

func (OrderDetail) TableName() string { return "order_details" }
func (d OrderDetail) GetID() int64 { return d.ID }
func (d OrderDetail) WithID(id int64) OrderDetail { d.ID = id; return d }
func (d OrderDetail) Clone() OrderDetail { return d }
