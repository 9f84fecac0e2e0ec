package api

import (
	"github.com/shopspring/decimal"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

// CategoryDTO is the wire shape of a category
type CategoryDTO struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"categoryName"`
	Description  string `json:"description"`
}

// CategoryInput is the body of category create and update requests
type CategoryInput struct {
	CategoryName string `json:"categoryName" validate:"required,max=15"`
	Description  string `json:"description" validate:"max=1000"`
}

func (a *API) categories() *resource[domain.Category, CategoryDTO, CategoryInput] {
	return &resource[domain.Category, CategoryDTO, CategoryInput]{
		api:    a,
		name:   "Category",
		plural: "Categories",
		repo:   a.repos.Categories,
		read:   anyRole,
		toDTO: func(c domain.Category) CategoryDTO {
			return CategoryDTO{ID: c.ID, CategoryName: c.CategoryName, Description: c.Description}
		},
		fromInput: func(in CategoryInput) domain.Category {
			return domain.Category{CategoryName: in.CategoryName, Description: in.Description}
		},
		unique: func(in CategoryInput) []uniqueField {
			return []uniqueField{uniqueOn("name", "category_name", in.CategoryName)}
		},
	}
}

// SupplierDTO is the wire shape of a supplier
type SupplierDTO struct {
	ID           int64  `json:"id"`
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName"`
	ContactTitle string `json:"contactTitle"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

// SupplierInput is the body of supplier create and update requests
type SupplierInput struct {
	CompanyName  string `json:"companyName" validate:"required,max=40"`
	ContactName  string `json:"contactName" validate:"max=30"`
	ContactTitle string `json:"contactTitle" validate:"max=30"`
	Address      string `json:"address" validate:"max=60"`
	City         string `json:"city" validate:"max=15"`
	Region       string `json:"region" validate:"max=15"`
	PostalCode   string `json:"postalCode" validate:"max=10"`
	Country      string `json:"country" validate:"max=15"`
	Phone        string `json:"phone" validate:"max=24"`
}

func (a *API) suppliers() *resource[domain.Supplier, SupplierDTO, SupplierInput] {
	return &resource[domain.Supplier, SupplierDTO, SupplierInput]{
		api:    a,
		name:   "Supplier",
		plural: "Suppliers",
		repo:   a.repos.Suppliers,
		read:   anyRole,
		toDTO: func(s domain.Supplier) SupplierDTO {
			return SupplierDTO(s)
		},
		fromInput: func(in SupplierInput) domain.Supplier {
			return domain.Supplier{
				CompanyName:  in.CompanyName,
				ContactName:  in.ContactName,
				ContactTitle: in.ContactTitle,
				Address:      in.Address,
				City:         in.City,
				Region:       in.Region,
				PostalCode:   in.PostalCode,
				Country:      in.Country,
				Phone:        in.Phone,
			}
		},
		unique: func(in SupplierInput) []uniqueField {
			return []uniqueField{uniqueOn("company name", "company_name", in.CompanyName)}
		},
	}
}

// ProductDTO is the wire shape of a product
type ProductDTO struct {
	ID              int64           `json:"id"`
	ProductName     string          `json:"productName"`
	SupplierID      *int64          `json:"supplierId"`
	CategoryID      *int64          `json:"categoryId"`
	QuantityPerUnit string          `json:"quantityPerUnit"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	UnitsInStock    int             `json:"unitsInStock"`
	UnitsOnOrder    int             `json:"unitsOnOrder"`
	ReorderLevel    int             `json:"reorderLevel"`
	Discontinued    bool            `json:"discontinued"`
}

// ProductInput is the body of product create and update requests
type ProductInput struct {
	ProductName     string          `json:"productName" validate:"required,max=40"`
	SupplierID      *int64          `json:"supplierId" validate:"omitempty,gt=0"`
	CategoryID      *int64          `json:"categoryId" validate:"omitempty,gt=0"`
	QuantityPerUnit string          `json:"quantityPerUnit" validate:"max=20"`
	UnitPrice       decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	UnitsInStock    int             `json:"unitsInStock" validate:"gte=0"`
	UnitsOnOrder    int             `json:"unitsOnOrder" validate:"gte=0"`
	ReorderLevel    int             `json:"reorderLevel" validate:"gte=0"`
	Discontinued    bool            `json:"discontinued"`
}

func (a *API) products() *resource[domain.Product, ProductDTO, ProductInput] {
	return &resource[domain.Product, ProductDTO, ProductInput]{
		api:    a,
		name:   "Product",
		plural: "Products",
		repo:   a.repos.Products,
		read:   anyRole,
		toDTO: func(p domain.Product) ProductDTO {
			return ProductDTO(p)
		},
		fromInput: func(in ProductInput) domain.Product {
			return domain.Product{
				ProductName:     in.ProductName,
				SupplierID:      in.SupplierID,
				CategoryID:      in.CategoryID,
				QuantityPerUnit: in.QuantityPerUnit,
				UnitPrice:       in.UnitPrice,
				UnitsInStock:    in.UnitsInStock,
				UnitsOnOrder:    in.UnitsOnOrder,
				ReorderLevel:    in.ReorderLevel,
				Discontinued:    in.Discontinued,
			}
		},
		unique: func(in ProductInput) []uniqueField {
			return []uniqueField{uniqueOn("name", "product_name", in.ProductName)}
		},
		refs: func(p domain.Product) []reference {
			return []reference{
				refTo("Supplier", a.repos.Suppliers, p.SupplierID),
				refTo("Category", a.repos.Categories, p.CategoryID),
			}
		},
	}
}
