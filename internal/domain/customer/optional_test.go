package customer_test

import (
	"testing"

	"customer-engine/internal/domain/customer"

	"github.com/stretchr/testify/assert"
)

func TestOptional(t *testing.T) {
	t.Run("zero value is absent", func(t *testing.T) {
		var o customer.Optional[string]
		assert.False(t, o.IsSet())
		value, ok := o.Value()
		assert.False(t, ok)
		assert.Equal(t, "", value)
		assert.Equal(t, "fallback", o.Or("fallback"))
	})

	t.Run("present empty value is not absent", func(t *testing.T) {
		o := customer.Some("")
		assert.True(t, o.IsSet())
		assert.Equal(t, "", o.Or("fallback"))
	})

	t.Run("present value wins over fallback", func(t *testing.T) {
		o := customer.Some(int64(7))
		assert.Equal(t, int64(7), o.Or(99))
	})

	t.Run("from nil pointer", func(t *testing.T) {
		o := customer.FromPointer[bool](nil)
		assert.False(t, o.IsSet())
	})

	t.Run("from non nil pointer", func(t *testing.T) {
		v := true
		o := customer.FromPointer(&v)
		assert.True(t, o.IsSet())
		assert.True(t, o.Or(false))
	})
}
