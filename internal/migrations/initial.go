package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// northwindTables lists table DDL in dependency order. %[1]s is replaced by
// the dialect's primary key definition.
var northwindTables = []struct {
	name string
	ddl  string
}{
	{"categories", `CREATE TABLE categories (
		id %[1]s,
		category_name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`},
	{"customers", `CREATE TABLE customers (
		id %[1]s,
		company_name TEXT NOT NULL UNIQUE,
		contact_name TEXT NOT NULL DEFAULT '',
		contact_title TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT ''
	)`},
	{"employees", `CREATE TABLE employees (
		id %[1]s,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		title_of_courtesy TEXT NOT NULL DEFAULT '',
		birth_date TIMESTAMP,
		hire_date TIMESTAMP,
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		home_phone TEXT NOT NULL DEFAULT '',
		reports_to BIGINT REFERENCES employees(id)
	)`},
	{"shippers", `CREATE TABLE shippers (
		id %[1]s,
		company_name TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT ''
	)`},
	{"suppliers", `CREATE TABLE suppliers (
		id %[1]s,
		company_name TEXT NOT NULL UNIQUE,
		contact_name TEXT NOT NULL DEFAULT '',
		contact_title TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT ''
	)`},
	{"regions", `CREATE TABLE regions (
		id %[1]s,
		region_description TEXT NOT NULL UNIQUE
	)`},
	{"territories", `CREATE TABLE territories (
		id %[1]s,
		territory_description TEXT NOT NULL UNIQUE,
		region_id BIGINT NOT NULL REFERENCES regions(id)
	)`},
	{"products", `CREATE TABLE products (
		id %[1]s,
		product_name TEXT NOT NULL UNIQUE,
		supplier_id BIGINT REFERENCES suppliers(id),
		category_id BIGINT REFERENCES categories(id),
		quantity_per_unit TEXT NOT NULL DEFAULT '',
		unit_price NUMERIC(10,2) NOT NULL DEFAULT 0,
		units_in_stock INTEGER NOT NULL DEFAULT 0,
		units_on_order INTEGER NOT NULL DEFAULT 0,
		reorder_level INTEGER NOT NULL DEFAULT 0,
		discontinued BOOLEAN NOT NULL DEFAULT FALSE,
		CHECK (unit_price >= 0),
		CHECK (units_in_stock >= 0)
	)`},
	{"orders", `CREATE TABLE orders (
		id %[1]s,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		employee_id BIGINT REFERENCES employees(id),
		order_date TIMESTAMP,
		required_date TIMESTAMP,
		shipped_date TIMESTAMP,
		ship_via BIGINT REFERENCES shippers(id),
		freight NUMERIC(10,2) NOT NULL DEFAULT 0,
		ship_name TEXT NOT NULL DEFAULT '',
		ship_address TEXT NOT NULL DEFAULT '',
		ship_city TEXT NOT NULL DEFAULT '',
		ship_region TEXT NOT NULL DEFAULT '',
		ship_postal_code TEXT NOT NULL DEFAULT '',
		ship_country TEXT NOT NULL DEFAULT ''
	)`},
	{"order_details", `CREATE TABLE order_details (
		id %[1]s,
		order_id BIGINT NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		unit_price NUMERIC(10,2) NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		discount REAL NOT NULL DEFAULT 0,
		UNIQUE (order_id, product_id),
		CHECK (quantity > 0),
		CHECK (discount >= 0 AND discount <= 1)
	)`},
}

var identityTables = []struct {
	name string
	ddl  string
}{
	{"users", `CREATE TABLE users (
		id %[1]s,
		user_name TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`},
	{"audit_logs", `CREATE TABLE audit_logs (
		id %[1]s,
		request_id TEXT NOT NULL DEFAULT '',
		details TEXT NOT NULL DEFAULT '',
		method_type TEXT NOT NULL DEFAULT '',
		status_code INTEGER NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`},
}

// GetInitialMigrations returns the schema creation migrations
func GetInitialMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_northwind_tables",
			Up: func(ctx context.Context, tx *sql.Tx, d Dialect) error {
				for _, t := range northwindTables {
					if _, err := tx.ExecContext(ctx, fmt.Sprintf(t.ddl, d.primaryKey())); err != nil {
						return fmt.Errorf("create %s: %w", t.name, err)
					}
				}
				return nil
			},
			Down: func(ctx context.Context, tx *sql.Tx, d Dialect) error {
				for i := len(northwindTables) - 1; i >= 0; i-- {
					if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+northwindTables[i].name); err != nil {
						return fmt.Errorf("drop %s: %w", northwindTables[i].name, err)
					}
				}
				return nil
			},
		},
		{
			Version: 2,
			Name:    "create_users_and_audit_logs",
			Up: func(ctx context.Context, tx *sql.Tx, d Dialect) error {
				for _, t := range identityTables {
					if _, err := tx.ExecContext(ctx, fmt.Sprintf(t.ddl, d.primaryKey())); err != nil {
						return fmt.Errorf("create %s: %w", t.name, err)
					}
				}
				return nil
			},
			Down: func(ctx context.Context, tx *sql.Tx, d Dialect) error {
				for i := len(identityTables) - 1; i >= 0; i-- {
					if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+identityTables[i].name); err != nil {
						return fmt.Errorf("drop %s: %w", identityTables[i].name, err)
					}
				}
				return nil
			},
		},
	}
}
