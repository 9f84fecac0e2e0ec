package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/envelope"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

// uniqueField is a set of values no two rows may share
type uniqueField struct {
	desc   string // e.g. "name Beverages", used in messages
	filter repository.Filter
}

func uniqueOn(label, column string, value any) uniqueField {
	return uniqueField{
		desc:   fmt.Sprintf("%s %v", label, value),
		filter: repository.Where(repository.Eq(column, value)),
	}
}

// reference is a foreign key that must point at an existing row
type reference struct {
	entity string
	id     *int64
	exists func(ctx context.Context, id int64) (bool, error)
}

func refTo[T domain.Entity[T]](entity string, repo repository.Repository[T], id *int64) reference {
	return reference{
		entity: entity,
		id:     id,
		exists: func(ctx context.Context, id int64) (bool, error) {
			return repo.Exists(ctx, repository.ByID(id), false)
		},
	}
}

// resource serves the CRUD routes of one entity. T is the stored entity, D
// the DTO sent to clients and I the create/update request body.
type resource[T domain.Entity[T], D any, I any] struct {
	api    *API
	name   string // singular, used in messages
	plural string // path segment
	repo   repository.Repository[T]
	read   access

	toDTO     func(T) D
	fromInput func(I) T
	unique    func(I) []uniqueField
	refs      func(T) []reference
}

// parent is the part of a resource a sub-resource route needs
type parent interface {
	pathName() string
	readAccess() access
	exists(ctx context.Context, id int64) (bool, error)
	notFound(id int64) string
}

func (res *resource[T, D, I]) pathName() string   { return res.plural }
func (res *resource[T, D, I]) readAccess() access { return res.read }

func (res *resource[T, D, I]) exists(ctx context.Context, id int64) (bool, error) {
	return res.repo.Exists(ctx, repository.ByID(id), false)
}

func (res *resource[T, D, I]) notFound(id int64) string {
	return fmt.Sprintf("%s with id %d not found", res.name, id)
}

// mount registers the collection routes plus any sub-resources
func (res *resource[T, D, I]) mount(r chi.Router, extra ...func(chi.Router)) {
	a := res.api
	r.Route("/api/"+res.plural, func(r chi.Router) {
		r.Get("/", a.route(res.plural+".GetAll", res.read, res.list))
		r.Post("/", a.route(res.plural+".Create", adminOnly, res.create))
		r.Get("/{id}", a.route(res.plural+".Get", res.read, res.get))
		r.Put("/{id}", a.route(res.plural+".Update", adminOnly, res.update))
		r.Delete("/{id}", a.route(res.plural+".Delete", adminOnly, res.delete))
		for _, fn := range extra {
			fn(r)
		}
	})
}

// mountReadOnly registers only the GET routes
func (res *resource[T, D, I]) mountReadOnly(r chi.Router) {
	a := res.api
	r.Route("/api/"+res.plural, func(r chi.Router) {
		r.Get("/", a.route(res.plural+".GetAll", res.read, res.list))
		r.Get("/{id}", a.route(res.plural+".Get", res.read, res.get))
	})
}

// childrenOf serves GET /{id}/<plural> under p, listing rows whose column
// equals the parent id.
func (res *resource[T, D, I]) childrenOf(p parent, column string) func(chi.Router) {
	return func(r chi.Router) {
		details := p.pathName() + ".Get" + res.plural
		r.Get("/{id}/"+res.plural, res.api.route(details, p.readAccess(), func(r *http.Request, _ auth.RequestContext) *envelope.Response {
			id, resp := pathID(r)
			if resp != nil {
				return resp
			}
			ok, err := p.exists(r.Context(), id)
			if err != nil {
				return res.api.failure(r, err)
			}
			if !ok {
				return envelope.New().Fail(http.StatusNotFound, p.notFound(id))
			}

			rows, err := res.repo.Find(r.Context(), repository.Where(repository.Eq(column, id)), false)
			if err != nil {
				return res.api.failure(r, err)
			}
			return res.collection(rows)
		}))
	}
}

func (res *resource[T, D, I]) collection(rows []T) *envelope.Response {
	if len(rows) == 0 && res.api.opts.EmptyListNotFound {
		return envelope.New().Fail(http.StatusNotFound, fmt.Sprintf("No %s found", humanize(res.plural)))
	}
	dtos := make([]D, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, res.toDTO(row))
	}
	return envelope.New().Succeed(http.StatusOK, dtos)
}

func (res *resource[T, D, I]) list(r *http.Request, _ auth.RequestContext) *envelope.Response {
	rows, err := res.repo.GetAll(r.Context(), false)
	if err != nil {
		return res.api.failure(r, err)
	}
	return res.collection(rows)
}

func (res *resource[T, D, I]) get(r *http.Request, _ auth.RequestContext) *envelope.Response {
	id, resp := pathID(r)
	if resp != nil {
		return resp
	}
	entity, err := res.repo.Get(r.Context(), repository.ByID(id), false)
	if err != nil {
		return res.writeFailure(r, err, id)
	}
	return envelope.New().Succeed(http.StatusOK, res.toDTO(entity))
}

func (res *resource[T, D, I]) create(r *http.Request, _ auth.RequestContext) *envelope.Response {
	var in I
	if _, resp := res.api.decode(r, &in); resp != nil {
		return resp
	}

	if resp := res.checkUnique(r, in); resp != nil {
		return resp
	}

	entity := res.fromInput(in)
	if resp := res.checkRefs(r, entity); resp != nil {
		return resp
	}

	created, err := res.repo.Create(r.Context(), entity)
	if err != nil {
		return res.writeFailure(r, err, 0)
	}
	return envelope.New().Succeed(http.StatusOK, res.toDTO(created))
}

func (res *resource[T, D, I]) update(r *http.Request, _ auth.RequestContext) *envelope.Response {
	var in I
	body, resp := res.api.decode(r, &in)
	if resp != nil {
		return resp
	}
	var ident struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &ident); err != nil {
		return envelope.New().Fail(http.StatusBadRequest, "Invalid value for id")
	}

	id, resp := pathID(r)
	if resp != nil {
		return resp
	}
	if ident.ID == nil || *ident.ID != id {
		return envelope.New().Fail(http.StatusBadRequest, "ids do not match")
	}

	ok, err := res.repo.Exists(r.Context(), repository.ByID(id), true)
	if err != nil {
		return res.api.failure(r, err)
	}
	if !ok {
		return envelope.New().Fail(http.StatusNotFound, res.notFound(id))
	}

	entity := res.fromInput(in).WithID(id)
	if resp := res.checkRefs(r, entity); resp != nil {
		return resp
	}

	updated, err := res.repo.Update(r.Context(), entity)
	if err != nil {
		return res.writeFailure(r, err, id)
	}
	return envelope.New().Succeed(http.StatusOK, res.toDTO(updated))
}

func (res *resource[T, D, I]) delete(r *http.Request, _ auth.RequestContext) *envelope.Response {
	id, resp := pathID(r)
	if resp != nil {
		return resp
	}
	entity, err := res.repo.Get(r.Context(), repository.ByID(id), true)
	if err != nil {
		return res.writeFailure(r, err, id)
	}
	if err := res.repo.Delete(r.Context(), entity); err != nil {
		return res.writeFailure(r, err, id)
	}
	return envelope.New().Succeed(http.StatusOK, nil)
}

// checkUnique rejects input that would repeat an existing row's unique values
func (res *resource[T, D, I]) checkUnique(r *http.Request, in I) *envelope.Response {
	if res.unique == nil {
		return nil
	}
	for _, u := range res.unique(in) {
		taken, err := res.repo.Exists(r.Context(), u.filter, false)
		if err != nil {
			return res.api.failure(r, err)
		}
		if taken {
			return envelope.New().Fail(http.StatusBadRequest,
				fmt.Sprintf("%s with %s already exists", res.name, u.desc))
		}
	}
	return nil
}

func (res *resource[T, D, I]) checkRefs(r *http.Request, entity T) *envelope.Response {
	if res.refs == nil {
		return nil
	}
	for _, ref := range res.refs(entity) {
		if ref.id == nil {
			continue
		}
		ok, err := ref.exists(r.Context(), *ref.id)
		if err != nil {
			return res.api.failure(r, err)
		}
		if !ok {
			return envelope.New().Fail(http.StatusBadRequest, fmt.Sprintf("%s with id %d not found", ref.entity, *ref.id))
		}
	}
	return nil
}

// writeFailure words repository errors for this entity
func (res *resource[T, D, I]) writeFailure(r *http.Request, err error, id int64) *envelope.Response {
	switch {
	case errors.Is(err, repository.ErrNotFound) && id > 0:
		return envelope.New().Fail(http.StatusNotFound, res.notFound(id))
	case errors.Is(err, repository.ErrDuplicate):
		return envelope.New().Fail(http.StatusBadRequest, fmt.Sprintf("%s already exists", res.name))
	case errors.Is(err, repository.ErrConstraint):
		return envelope.New().Fail(http.StatusBadRequest, fmt.Sprintf("%s conflicts with related records", res.name))
	}
	return res.api.failure(r, err)
}

// humanize turns a path segment such as OrderDetails into "order details"
func humanize(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
