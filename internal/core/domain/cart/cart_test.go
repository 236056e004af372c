package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	items := []LineItem{
		{ID: "b", UnitPrice: 1000, Quantity: 2},
		{ID: "a", UnitPrice: 250, Quantity: 1},
	}
	st := NewState(items)

	require.Equal(t, "a", st.Items[0].ID)
	require.Equal(t, "b", st.Items[1].ID)
	require.EqualValues(t, 2250, st.Total)
	require.Equal(t, 3, st.ItemCount)

	// input is not reordered
	require.Equal(t, "b", items[0].ID)
}

func TestNewState_Empty(t *testing.T) {
	st := NewState(nil)
	require.NotNil(t, st.Items)
	require.Empty(t, st.Items)
	require.Zero(t, st.Total)
	require.Zero(t, st.ItemCount)
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"add", "remove", "update", "clear", "getState"} {
		a, err := ParseAction(s)
		require.NoError(t, err)
		require.Equal(t, Action(s), a)
	}
	_, err := ParseAction("GETSTATE")
	require.ErrorIs(t, err, ErrInvalidAction)

	require.False(t, ActionGetState.Mutates())
	require.True(t, ActionClear.Mutates())
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	require.False(t, ok)

	_, ok = SessionFromContext(WithSession(context.Background(), ""))
	require.False(t, ok)

	id, ok := SessionFromContext(WithSession(context.Background(), "s1"))
	require.True(t, ok)
	require.Equal(t, "s1", id)
}

func TestStorageKey(t *testing.T) {
	require.Equal(t, "skate-cart:s1", StorageKey("skate-cart", "s1"))
	require.Equal(t, "s1", StorageKey("", "s1"))
}

func TestParsePrice(t *testing.T) {
	m, err := ParsePrice(25.99)
	require.NoError(t, err)
	require.EqualValues(t, 2599, m)

	m, err = ParsePrice(1_000_000)
	require.NoError(t, err)
	require.Equal(t, MaxUnitPrice, m)

	for _, f := range []float64{-0.01, 1_000_000.01, 1e17, 1e300} {
		_, err := ParsePrice(f)
		require.ErrorIs(t, err, ErrInvalidPrice, "ParsePrice(%v)", f)
	}
}

func TestValidQuantity(t *testing.T) {
	require.True(t, ValidQuantity(1))
	require.True(t, ValidQuantity(MaxQuantity))
	require.False(t, ValidQuantity(0))
	require.False(t, ValidQuantity(MaxQuantity+1))
	require.False(t, ValidQuantity(2_000_000_000_000_000_000))
}
