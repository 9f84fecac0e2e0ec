package api

import (
	"time"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

// AuditLogDTO is the wire shape of a persisted audit record
type AuditLogDTO struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"requestId"`
	Details      string    `json:"details"`
	MethodType   string    `json:"methodType"`
	StatusCode   int       `json:"statusCode"`
	UserName     string    `json:"userName"`
	Role         string    `json:"role"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Audit logs are written by the sink, never through the API.
func (a *API) auditLogs() *resource[domain.AuditLog, AuditLogDTO, struct{}] {
	return &resource[domain.AuditLog, AuditLogDTO, struct{}]{
		api:    a,
		name:   "AuditLog",
		plural: "AuditLogs",
		repo:   a.repos.AuditLogs,
		read:   adminOnly,
		toDTO: func(l domain.AuditLog) AuditLogDTO {
			return AuditLogDTO(l)
		},
	}
}
