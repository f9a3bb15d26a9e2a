package myerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetailOr(t *testing.T) {
	t.Run("validation detail is surfaced verbatim", func(t *testing.T) {
		err := fmt.Errorf("create cat: %w", &ValidationError{StatusCode: 400, Detail: "invalid breed"})
		assert.Equal(t, "invalid breed", DetailOr(err, "An error occurred"))
	})
	t.Run("validation without detail falls back", func(t *testing.T) {
		err := &ValidationError{StatusCode: 400}
		assert.Equal(t, "Failed to delete cat", DetailOr(err, "Failed to delete cat"))
		assert.Equal(t, "HTTP 400: Bad Request", err.Error())
	})
	t.Run("not found without detail falls back", func(t *testing.T) {
		err := &NotFoundError{Resource: "cat", Id: 7}
		assert.Equal(t, "Failed to delete cat", DetailOr(err, "Failed to delete cat"))
		assert.Equal(t, "cat 7 not found", err.Error())
	})
	t.Run("transport errors carry no detail", func(t *testing.T) {
		err := &TransportError{Op: "list cats", Err: errors.New("connection refused")}
		assert.Equal(t, "", Detail(err))
		assert.ErrorContains(t, err, "connection refused")
	})
}
