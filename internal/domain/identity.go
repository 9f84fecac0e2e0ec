package domain

import "time"

// Role names understood by the authorization layer.
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// User is an account able to obtain API tokens
type User struct {
	ID           int64     `db:"id"`
	UserName     string    `db:"user_name"`     // Unique login name
	PasswordHash string    `db:"password_hash"` // bcrypt hash
	Role         string    `db:"role"`          // One of RoleAdmin, RoleCustomer
	CreatedAt    time.Time `db:"created_at"`
}

func (User) TableName() string { return "users" }
func (u User) GetID() int64 { return u.ID }
func (u User) WithID(id int64) User { u.ID = id; return u }
func (u User) Clone() User { return u }

// AuditLog is a persisted per-request log record
type AuditLog struct {
	ID           int64     `db:"id"`
	RequestID    string    `db:"request_id"`
	Details      string    `db:"details"`     // Resource.Action identifier
	MethodType   string    `db:"method_type"` // HTTP verb
	StatusCode   int       `db:"status_code"`
	UserName     string    `db:"user_name"`
	Role         string    `db:"role"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
	CreatedAt    time.Time `db:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
func (a AuditLog) GetID() int64 { return a.ID }
func (a AuditLog) WithID(id int64) AuditLog { a.ID = id; return a }
func (a AuditLog) Clone() AuditLog { return a }
