package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesKindSentinel(t *testing.T) {
	id := uuid.New()
	err := NewNotFoundError("invoice", id)

	assert.Equal(t, "INVOICE_NOT_FOUND", err.Code)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, id.String(), err.Details["id"])
}

func TestDomainError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("recording payment: %w", NewDomainError(KindExceedsBalance, "EXCEEDS_BALANCE_DUE", "too much"))

	assert.True(t, errors.Is(err, ErrExceedsBalance))

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, KindExceedsBalance, de.Kind)
	assert.True(t, de.Kind.IsBusinessRule())
}

func TestDomainError_WithDetailCopies(t *testing.T) {
	base := NewDomainError(KindValidation, "INVALID_AMOUNT", "Amount must be positive")
	withField := base.WithField("amount", "-5")

	assert.Nil(t, base.Details)
	assert.Equal(t, "amount", withField.Details["field"])
	assert.Equal(t, "-5", withField.Details["value"])
}

func TestIllegalTransitionError_NamesBothStates(t *testing.T) {
	err := NewIllegalTransitionError("expense", "PENDING", "PAID")

	assert.Equal(t, KindIllegalTransition, err.Kind)
	assert.Contains(t, err.Error(), "PENDING")
	assert.Contains(t, err.Error(), "PAID")
	assert.Equal(t, "PENDING", err.Details["current"])
	assert.Equal(t, "PAID", err.Details["attempted"])
	assert.True(t, errors.Is(err, ErrIllegalTransition))
}

func TestWrapPersistenceError(t *testing.T) {
	t.Run("wraps plain errors", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := WrapPersistenceError("save payment", cause)

		assert.True(t, errors.Is(err, ErrPersistence))
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "save payment failed: connection reset", err.Error())
	})

	t.Run("passes domain errors through", func(t *testing.T) {
		orig := NewNotFoundError("bill", "x")
		assert.Same(t, orig, WrapPersistenceError("load bill", orig))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapPersistenceError("noop", nil))
	})
}

func TestNotFoundCodeForMultiWordEntity(t *testing.T) {
	err := NewNotFoundError("petty cash account", 1)
	assert.Equal(t, "PETTY_CASH_ACCOUNT_NOT_FOUND", err.Code)

	assert.Equal(t, "INVENTORY_ITEM_NOT_FOUND", NewNotFoundError("InventoryItem", 1).Code)
	assert.Equal(t, NewNotFoundError("stock movement", 1).Code, NewNotFoundError("StockMovement", 1).Code)
}
