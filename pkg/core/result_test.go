package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := Ok(42)
		v, err := r.Unwrap()

		assert.True(t, r.IsOk())
		assert.NoError(t, r.Err())
		assert.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("fail", func(t *testing.T) {
		cause := NewError(OpGetPrice, KindProtocol, ErrMissingField)
		r := Fail[int](cause)
		v, err := r.Unwrap()

		assert.False(t, r.IsOk())
		assert.Equal(t, cause, r.Err())
		assert.Equal(t, cause, err)
		assert.Zero(t, v)
	})

	t.Run("fail_without_cause_is_still_failure", func(t *testing.T) {
		r := Fail[string](nil)

		assert.False(t, r.IsOk())
		assert.Error(t, r.Err())
	})

	t.Run("from_discards_value_on_error", func(t *testing.T) {
		r := From("partial", errors.New("boom"))
		v, err := r.Unwrap()

		assert.EqualError(t, err, "boom")
		assert.Empty(t, v)
	})

	t.Run("from_success", func(t *testing.T) {
		r := From("ETH", nil)

		assert.True(t, r.IsOk())
		v, _ := r.Unwrap()
		assert.Equal(t, "ETH", v)
	})
}
