package repository

import (
	"context"
	"time"

	"github.com/jbweber/homelab/northwind/internal/domain"
)

// Observer receives one report per repository call
type Observer interface {
	ObserveRepository(table, operation string, started time.Time, err error)
}

// Instrumented wraps a Repository and reports each call to an Observer
type Instrumented[T domain.Entity[T]] struct {
	next     Repository[T]
	observer Observer
	table    string
}

// Instrument decorates next. A nil observer returns next unchanged.
func Instrument[T domain.Entity[T]](next Repository[T], observer Observer) Repository[T] {
	if observer == nil {
		return next
	}
	var zero T
	return &Instrumented[T]{next: next, observer: observer, table: zero.TableName()}
}

func (r *Instrumented[T]) observe(op string, started time.Time, err error) {
	r.observer.ObserveRepository(r.table, op, started, err)
}

func (r *Instrumented[T]) GetAll(ctx context.Context, tracked bool) ([]T, error) {
	started := time.Now()
	rows, err := r.next.GetAll(ctx, tracked)
	r.observe("get_all", started, err)
	return rows, err
}

func (r *Instrumented[T]) Find(ctx context.Context, filter Filter, tracked bool) ([]T, error) {
	started := time.Now()
	rows, err := r.next.Find(ctx, filter, tracked)
	r.observe("find", started, err)
	return rows, err
}

func (r *Instrumented[T]) Get(ctx context.Context, filter Filter, tracked bool) (T, error) {
	started := time.Now()
	entity, err := r.next.Get(ctx, filter, tracked)
	r.observe("get", started, err)
	return entity, err
}

func (r *Instrumented[T]) Exists(ctx context.Context, filter Filter, tracked bool) (bool, error) {
	started := time.Now()
	ok, err := r.next.Exists(ctx, filter, tracked)
	r.observe("exists", started, err)
	return ok, err
}

func (r *Instrumented[T]) Create(ctx context.Context, entity T) (T, error) {
	started := time.Now()
	created, err := r.next.Create(ctx, entity)
	r.observe("create", started, err)
	return created, err
}

func (r *Instrumented[T]) Update(ctx context.Context, entity T) (T, error) {
	started := time.Now()
	updated, err := r.next.Update(ctx, entity)
	r.observe("update", started, err)
	return updated, err
}

func (r *Instrumented[T]) Delete(ctx context.Context, entity T) error {
	started := time.Now()
	err := r.next.Delete(ctx, entity)
	r.observe("delete", started, err)
	return err
}
