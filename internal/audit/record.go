// Package audit builds and emits one structured log record per API request.
package audit

import "time"

// Record is an immutable snapshot of what happened during one request
type Record struct {
	RequestID    string
	Details      string // Resource.Action, e.g. Categories.Create
	MethodType   string // HTTP verb
	StatusCode   int
	User         string
	Role         string
	Success      bool
	Failed       bool
	ErrorMessage string
	Timestamp    time.Time
}

// Builder assembles a Record. Create one per request with NewBuilder; a
// builder must never be shared between requests.
type Builder struct {
	rec Record
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) SetRequestID(id string) *Builder {
	b.rec.RequestID = id
	return b
}

func (b *Builder) SetDetails(details string) *Builder {
	b.rec.Details = details
	return b
}

func (b *Builder) SetMethodType(method string) *Builder {
	b.rec.MethodType = method
	return b
}

func (b *Builder) SetStatusCode(code int) *Builder {
	b.rec.StatusCode = code
	return b
}

func (b *Builder) SetUser(user string) *Builder {
	b.rec.User = user
	return b
}

func (b *Builder) SetRole(role string) *Builder {
	b.rec.Role = role
	return b
}

// SetSuccess marks the record successful and clears Failed.
func (b *Builder) SetSuccess() *Builder {
	b.rec.Success = true
	b.rec.Failed = false
	return b
}

// SetFailed marks the record failed and clears Success.
func (b *Builder) SetFailed() *Builder {
	b.rec.Success = false
	b.rec.Failed = true
	return b
}

func (b *Builder) SetErrorMessage(msg string) *Builder {
	b.rec.ErrorMessage = msg
	return b
}

func (b *Builder) SetTimestamp(ts time.Time) *Builder {
	b.rec.Timestamp = ts
	return b
}

// Build returns a copy of the current state. Later setter calls do not
// affect records already built.
func (b *Builder) Build() Record {
	return b.rec
}
