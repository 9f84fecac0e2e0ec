package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

// ShipperDTO is the wire shape of a shipper
type ShipperDTO struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
}

// ShipperInput is the body of shipper create and update requests
type ShipperInput struct {
	CompanyName string `json:"companyName" validate:"required,max=40"`
	Phone       string `json:"phone" validate:"max=24"`
}

func (a *API) shippers() *resource[domain.Shipper, ShipperDTO, ShipperInput] {
	return &resource[domain.Shipper, ShipperDTO, ShipperInput]{
		api:    a,
		name:   "Shipper",
		plural: "Shippers",
		repo:   a.repos.Shippers,
		read:   anyRole,
		toDTO: func(s domain.Shipper) ShipperDTO {
			return ShipperDTO(s)
		},
		fromInput: func(in ShipperInput) domain.Shipper {
			return domain.Shipper{CompanyName: in.CompanyName, Phone: in.Phone}
		},
		unique: func(in ShipperInput) []uniqueField {
			return []uniqueField{uniqueOn("company name", "company_name", in.CompanyName)}
		},
	}
}

// OrderDTO is the wire shape of an order
type OrderDTO struct {
	ID             int64           `json:"id"`
	CustomerID     int64           `json:"customerId"`
	EmployeeID     *int64          `json:"employeeId"`
	OrderDate      *time.Time      `json:"orderDate"`
	RequiredDate   *time.Time      `json:"requiredDate"`
	ShippedDate    *time.Time      `json:"shippedDate"`
	ShipVia        *int64          `json:"shipVia"`
	Freight        decimal.Decimal `json:"freight"`
	ShipName       string          `json:"shipName"`
	ShipAddress    string          `json:"shipAddress"`
	ShipCity       string          `json:"shipCity"`
	ShipRegion     string          `json:"shipRegion"`
	ShipPostalCode string          `json:"shipPostalCode"`
	ShipCountry    string          `json:"shipCountry"`
}

// OrderInput is the body of order create and update requests
type OrderInput struct {
	CustomerID     int64           `json:"customerId" validate:"required,gt=0"`
	EmployeeID     *int64          `json:"employeeId" validate:"omitempty,gt=0"`
	OrderDate      *time.Time      `json:"orderDate"`
	RequiredDate   *time.Time      `json:"requiredDate"`
	ShippedDate    *time.Time      `json:"shippedDate"`
	ShipVia        *int64          `json:"shipVia" validate:"omitempty,gt=0"`
	Freight        decimal.Decimal `json:"freight" validate:"gte=0"`
	ShipName       string          `json:"shipName" validate:"max=40"`
	ShipAddress    string          `json:"shipAddress" validate:"max=60"`
	ShipCity       string          `json:"shipCity" validate:"max=15"`
	ShipRegion     string          `json:"shipRegion" validate:"max=15"`
	ShipPostalCode string          `json:"shipPostalCode" validate:"max=10"`
	ShipCountry    string          `json:"shipCountry" validate:"max=15"`
}

func (a *API) orders() *resource[domain.Order, OrderDTO, OrderInput] {
	return &resource[domain.Order, OrderDTO, OrderInput]{
		api:    a,
		name:   "Order",
		plural: "Orders",
		repo:   a.repos.Orders,
		read:   anyRole,
		toDTO: func(o domain.Order) OrderDTO {
			return OrderDTO(o)
		},
		fromInput: func(in OrderInput) domain.Order {
			return domain.Order{
				CustomerID:     in.CustomerID,
				EmployeeID:     in.EmployeeID,
				OrderDate:      in.OrderDate,
				RequiredDate:   in.RequiredDate,
				ShippedDate:    in.ShippedDate,
				ShipVia:        in.ShipVia,
				Freight:        in.Freight,
				ShipName:       in.ShipName,
				ShipAddress:    in.ShipAddress,
				ShipCity:       in.ShipCity,
				ShipRegion:     in.ShipRegion,
				ShipPostalCode: in.ShipPostalCode,
				ShipCountry:    in.ShipCountry,
			}
		},
		refs: func(o domain.Order) []reference {
			return []reference{
				refTo("Customer", a.repos.Customers, &o.CustomerID),
				refTo("Employee", a.repos.Employees, o.EmployeeID),
				refTo("Shipper", a.repos.Shippers, o.ShipVia),
			}
		},
	}
}

// OrderDetailDTO is the wire shape of an order line
type OrderDetailDTO struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Discount  float64         `json:"discount"`
}

// OrderDetailInput is the body of order line create and update requests
type OrderDetailInput struct {
	OrderID   int64           `json:"orderId" validate:"required,gt=0"`
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Discount  float64         `json:"discount" validate:"gte=0,lte=1"`
}

func (a *API) orderDetails() *resource[domain.OrderDetail, OrderDetailDTO, OrderDetailInput] {
	return &resource[domain.OrderDetail, OrderDetailDTO, OrderDetailInput]{
		api:    a,
		name:   "OrderDetail",
		plural: "OrderDetails",
		repo:   a.repos.OrderDetails,
		read:   anyRole,
		toDTO: func(d domain.OrderDetail) OrderDetailDTO {
			return OrderDetailDTO(d)
		},
		fromInput: func(in OrderDetailInput) domain.OrderDetail {
			return domain.OrderDetail{
				OrderID:   in.OrderID,
				ProductID: in.ProductID,
				UnitPrice: in.UnitPrice,
				Quantity:  in.Quantity,
				Discount:  in.Discount,
			}
		},
		unique: func(in OrderDetailInput) []uniqueField {
			pair := repository.Where(repository.Eq("order_id", in.OrderID), repository.Eq("product_id", in.ProductID))
			return []uniqueField{{
				desc:   fmt.Sprintf("order id %d and product id %d", in.OrderID, in.ProductID),
				filter: pair,
			}}
		},
		refs: func(d domain.OrderDetail) []reference {
			return []reference{
				refTo("Order", a.repos.Orders, &d.OrderID),
				refTo("Product", a.repos.Products, &d.ProductID),
			}
		},
	}
}
