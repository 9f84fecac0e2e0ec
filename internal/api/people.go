package api

import (
	"time"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

// CustomerDTO is the wire shape of a customer
type CustomerDTO struct {
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

// CustomerInput is the body of customer create and update requests
type CustomerInput struct {
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

func (a *API) customers() *resource[domain.Customer, CustomerDTO, CustomerInput] {
	return &resource[domain.Customer, CustomerDTO, CustomerInput]{
		api:    a,
		name:   "Customer",
		plural: "Customers",
		repo:   a.repos.Customers,
		read:   anyRole,
		toDTO: func(c domain.Customer) CustomerDTO {
			return CustomerDTO(c)
		},
		fromInput: func(in CustomerInput) domain.Customer {
			return domain.Customer{
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
		unique: func(in CustomerInput) []uniqueField {
			return []uniqueField{uniqueOn("company name", "company_name", in.CompanyName)}
		},
	}
}

// EmployeeDTO is the wire shape of an employee
type EmployeeDTO struct {
	ID              int64      `json:"id"`
	LastName        string     `json:"lastName"`
	FirstName       string     `json:"firstName"`
	Title           string     `json:"title"`
	TitleOfCourtesy string     `json:"titleOfCourtesy"`
	BirthDate       *time.Time `json:"birthDate"`
	HireDate        *time.Time `json:"hireDate"`
	Address         string     `json:"address"`
	City            string     `json:"city"`
	Region          string     `json:"region"`
	PostalCode      string     `json:"postalCode"`
	Country         string     `json:"country"`
	HomePhone       string     `json:"homePhone"`
	ReportsTo       *int64     `json:"reportsTo"`
}

// EmployeeInput is the body of employee create and update requests
type EmployeeInput struct {
	LastName        string     `json:"lastName" validate:"required,max=20"`
	FirstName       string     `json:"firstName" validate:"required,max=10"`
	Title           string     `json:"title" validate:"max=30"`
	TitleOfCourtesy string     `json:"titleOfCourtesy" validate:"max=25"`
	BirthDate       *time.Time `json:"birthDate"`
	HireDate        *time.Time `json:"hireDate"`
	Address         string     `json:"address" validate:"max=60"`
	City            string     `json:"city" validate:"max=15"`
	Region          string     `json:"region" validate:"max=15"`
	PostalCode      string     `json:"postalCode" validate:"max=10"`
	Country         string     `json:"country" validate:"max=15"`
	HomePhone       string     `json:"homePhone" validate:"max=24"`
	ReportsTo       *int64     `json:"reportsTo" validate:"omitempty,gt=0"`
}

func (a *API) employees() *resource[domain.Employee, EmployeeDTO, EmployeeInput] {
	return &resource[domain.Employee, EmployeeDTO, EmployeeInput]{
		api:    a,
		name:   "Employee",
		plural: "Employees",
		repo:   a.repos.Employees,
		read:   adminOnly,
		toDTO: func(e domain.Employee) EmployeeDTO {
			return EmployeeDTO(e)
		},
		fromInput: func(in EmployeeInput) domain.Employee {
			return domain.Employee{
				LastName:        in.LastName,
				FirstName:       in.FirstName,
				Title:           in.Title,
				TitleOfCourtesy: in.TitleOfCourtesy,
				BirthDate:       in.BirthDate,
				HireDate:        in.HireDate,
				Address:         in.Address,
				City:            in.City,
				Region:          in.Region,
				PostalCode:      in.PostalCode,
				Country:         in.Country,
				HomePhone:       in.HomePhone,
				ReportsTo:       in.ReportsTo,
			}
		},
		refs: func(e domain.Employee) []reference {
			return []reference{refTo("Employee", a.repos.Employees, e.ReportsTo)}
		},
	}
}
