package migrations

import (
	"context"
	"database/sql"
)

var lookupIndices = []struct {
	name  string
	table string
	cols  string
}{
	{"idx_territories_region_id", "territories", "region_id"},
	{"idx_products_supplier_id", "products", "supplier_id"},
	{"idx_products_category_id", "products", "category_id"},
	{"idx_orders_customer_id", "orders", "customer_id"},
	{"idx_orders_employee_id", "orders", "employee_id"},
	{"idx_orders_ship_via", "orders", "ship_via"},
	{"idx_order_details_product_id", "order_details", "product_id"},
	{"idx_employees_reports_to", "employees", "reports_to"},
	{"idx_audit_logs_created_at", "audit_logs", "created_at"},
}

// GetPerformanceMigrations returns performance optimization migrations
func GetPerformanceMigrations() []Migration {
	return []Migration{
		{
			Version: 3,
			Name:    "add_lookup_indices",
			Up: func(ctx context.Context, tx *sql.Tx, _ Dialect) error {
				// Foreign key columns are not indexed automatically
				for _, idx := range lookupIndices {
					q := "CREATE INDEX IF NOT EXISTS " + idx.name + " ON " + idx.table + "(" + idx.cols + ")"
					if _, err := tx.ExecContext(ctx, q); err != nil {
						return err
					}
				}
				return nil
			},
			Down: func(ctx context.Context, tx *sql.Tx, _ Dialect) error {
				for _, idx := range lookupIndices {
					if _, err := tx.ExecContext(ctx, "DROP INDEX IF EXISTS "+idx.name); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
