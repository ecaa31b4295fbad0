package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sandoog/internal/models"
)

// DeleteUserCascade removes the user's transactions, savings and budgets and
// then the user row, all in one transaction. It returns ErrNotFound when the
// user row is already gone, in which case nothing is changed.
func DeleteUserCascade(ctx context.Context, g *Gateway, userID string) error {
	return deleteUserCascade(ctx, g, userID, nil)
}

// EvictIdleGuest is DeleteUserCascade restricted to a guest whose
// last_activity is still before cutoff. A guest touched since it was listed
// is left alone and ErrNotFound is returned.
func EvictIdleGuest(ctx context.Context, g *Gateway, userID string, cutoff time.Time) error {
	return deleteUserCascade(ctx, g, userID, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_guest = ? AND last_activity < ?", true, cutoff.UTC())
	})
}

// deleteUserCascade deletes the children first and the user row last. When
// the user row does not match, the whole transaction rolls back.
func deleteUserCascade(ctx context.Context, g *Gateway, userID string, guard func(*gorm.DB) *gorm.DB) error {
	return g.WithTx(ctx, func(tx *Gateway) error {
		owner := map[string]any{"user_id": userID}
		if _, err := For[models.Transaction](tx).DeleteBy(ctx, owner); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if _, err := For[models.Savings](tx).DeleteBy(ctx, owner); err != nil {
			return fmt.Errorf("delete savings: %w", err)
		}
		if _, err := For[models.Budget](tx).DeleteBy(ctx, owner); err != nil {
			return fmt.Errorf("delete budgets: %w", err)
		}

		q := tx.DB(ctx).Where("id = ?", userID)
		if guard != nil {
			q = guard(q)
		}
		res := q.Delete(&models.User{})
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// TouchGuest bumps last_activity for a guest. Registered users and missing
// rows are left alone.
func TouchGuest(ctx context.Context, g *Gateway, userID string, at time.Time) error {
	err := g.DB(ctx).Model(&models.User{}).
		Where("id = ? AND is_guest = ?", userID, true).
		UpdateColumn("last_activity", at.UTC()).Error
	return translate(err)
}

// ListGuests returns every guest account.
func ListGuests(ctx context.Context, g *Gateway) ([]models.User, error) {
	return For[models.User](g).FindBy(ctx, map[string]any{"is_guest": true})
}
