package services

import (
	"context"
	"errors"
	"fmt"

	"sandoog/internal/apperr"
	"sandoog/internal/models"
	"sandoog/internal/storage"
)

// Owned is a record that belongs to exactly one user and can check its own
// invariants.
type Owned[T any] interface {
	*T
	OwnerID() string
	Validate() error
}

// Ledger is the owner-scoped CRUD surface shared by budgets, savings and
// transactions. Noun is used in not-found messages ("Budget not found").
type Ledger[T any, P Owned[T]] struct {
	Store *storage.Gateway
	Noun  string
}

func NewLedger[T any, P Owned[T]](store *storage.Gateway, noun string) *Ledger[T, P] {
	return &Ledger[T, P]{Store: store, Noun: noun}
}

// Create validates rec and stores it for its owner, who must exist.
func (l *Ledger[T, P]) Create(ctx context.Context, rec P) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return l.Store.WithTx(ctx, func(tx *storage.Gateway) error {
		ok, err := storage.For[models.User](tx).Exists(ctx, map[string]any{"id": rec.OwnerID()})
		if err != nil {
			return fmt.Errorf("lookup owner: %w", err)
		}
		if !ok {
			return apperr.NotFound("User not found")
		}
		if err := storage.For[T](tx).Create(ctx, (*T)(rec)); err != nil {
			return fmt.Errorf("create %s: %w", l.Noun, err)
		}
		return nil
	})
}

// List returns every record owned by userID, oldest first.
func (l *Ledger[T, P]) List(ctx context.Context, userID string) ([]T, error) {
	out, err := storage.For[T](l.Store).FindBy(ctx, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.Noun, err)
	}
	return out, nil
}

// Get loads a record and checks that userID owns it.
func (l *Ledger[T, P]) Get(ctx context.Context, userID, id string) (P, error) {
	return l.get(ctx, l.Store, userID, id)
}

// Update loads the record, applies fn, validates the result and saves it.
// Nothing is written when fn or validation fails.
func (l *Ledger[T, P]) Update(ctx context.Context, userID, id string, fn func(P)) (P, error) {
	var out P
	err := l.Store.WithTx(ctx, func(tx *storage.Gateway) error {
		rec, err := l.get(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		fn(rec)
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := storage.For[T](tx).Update(ctx, (*T)(rec)); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperr.NotFound(l.Noun + " not found")
			}
			return fmt.Errorf("update %s: %w", l.Noun, err)
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a record owned by userID.
func (l *Ledger[T, P]) Delete(ctx context.Context, userID, id string) error {
	return l.Store.WithTx(ctx, func(tx *storage.Gateway) error {
		if _, err := l.get(ctx, tx, userID, id); err != nil {
			return err
		}
		if err := storage.For[T](tx).DeleteByID(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperr.NotFound(l.Noun + " not found")
			}
			return fmt.Errorf("delete %s: %w", l.Noun, err)
		}
		return nil
	})
}

func (l *Ledger[T, P]) get(ctx context.Context, g *storage.Gateway, userID, id string) (P, error) {
	rec, err := storage.For[T](g).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound(l.Noun + " not found")
		}
		return nil, fmt.Errorf("get %s: %w", l.Noun, err)
	}
	p := P(rec)
	if p.OwnerID() != userID {
		return nil, apperr.Forbidden("Unauthorized")
	}
	return p, nil
}

// Ledgers groups the three per-user collections.
type Ledgers struct {
	Budgets      *Ledger[models.Budget, *models.Budget]
	Savings      *Ledger[models.Savings, *models.Savings]
	Transactions *Ledger[models.Transaction, *models.Transaction]
}

func NewLedgers(store *storage.Gateway) *Ledgers {
	return &Ledgers{
		Budgets:      NewLedger[models.Budget, *models.Budget](store, "Budget"),
		Savings:      NewLedger[models.Savings, *models.Savings](store, "Savings"),
		Transactions: NewLedger[models.Transaction, *models.Transaction](store, "Transaction"),
	}
}

// Summary loads everything userID owns and aggregates it.
func (l *Ledgers) Summary(ctx context.Context, userID string) (Summary, error) {
	budgets, err := l.Budgets.List(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	savings, err := l.Savings.List(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	txs, err := l.Transactions.List(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(budgets, savings, txs), nil
}
