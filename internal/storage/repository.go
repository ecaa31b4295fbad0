package storage

import (
	"context"
)

// Repository is the CRUD surface for one entity type.
type Repository[T any] struct {
	db *Gateway
}

// For returns the repository for T on g. Use the tx gateway inside WithTx.
func For[T any](g *Gateway) Repository[T] {
	return Repository[T]{db: g}
}

func (r Repository[T]) Create(ctx context.Context, entity *T) error {
	return translate(r.db.DB(ctx).Create(entity).Error)
}

// Update writes every column of entity. It returns ErrNotFound when the row
// no longer exists rather than re-inserting it.
func (r Repository[T]) Update(ctx context.Context, entity *T) error {
	res := r.db.DB(ctx).Model(entity).Select("*").Omit("id", "created_at").Updates(entity)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repository[T]) DeleteByID(ctx context.Context, id string) error {
	res := r.db.DB(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBy removes every row matching fields and returns how many went.
func (r Repository[T]) DeleteBy(ctx context.Context, fields map[string]any) (int64, error) {
	res := r.db.DB(ctx).Where(fields).Delete(new(T))
	return res.RowsAffected, translate(res.Error)
}

func (r Repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.db.DB(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// GetBy returns the first row whose columns equal fields.
func (r Repository[T]) GetBy(ctx context.Context, fields map[string]any) (*T, error) {
	var out T
	if err := r.db.DB(ctx).Where(fields).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindBy returns every row whose columns equal fields, oldest first.
func (r Repository[T]) FindBy(ctx context.Context, fields map[string]any) ([]T, error) {
	var out []T
	if err := r.db.DB(ctx).Where(fields).Order("created_at").Order("id").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r Repository[T]) ListAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.db.DB(ctx).Order("created_at").Order("id").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r Repository[T]) Exists(ctx context.Context, fields map[string]any) (bool, error) {
	var count int64
	if err := r.db.DB(ctx).Model(new(T)).Where(fields).Limit(1).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
