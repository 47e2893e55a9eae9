package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewPage(t *testing.T) {
	page, err := NewPage(nil, nil)
	require.NoError(t, err)
	require.Equal(t, Page{Limit: DefaultLimit}, page)

	page, err = NewPage(intPtr(MaxLimit+1), intPtr(20))
	require.NoError(t, err)
	require.Equal(t, Page{Limit: MaxLimit, Offset: 20}, page)

	page, err = NewPage(intPtr(0), nil)
	require.NoError(t, err)
	require.Equal(t, 0, page.Limit)

	_, err = NewPage(intPtr(-1), intPtr(-5))
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, []string{"limit", "offset"}, verr.FieldNames())
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	require.True(t, verr.Empty())
	require.NoError(t, verr.OrNil())

	verr.Add("price", "must be at least 0")
	verr.Add("name", "is required")
	require.EqualError(t, verr.OrNil(), "validation failed: name: is required; price: must be at least 0")

	single := NewValidationError("quantity", "must be greater than 0")
	require.ErrorIs(t, single, ErrValidation)
}

func TestWrappedErrors(t *testing.T) {
	err := NotFound("medicine", "abc")
	require.ErrorIs(t, err, ErrNotFound)
	require.EqualError(t, err, `medicine "abc": not found`)

	err = Conflict("order %s is %s", "ORD-1", "delivered")
	require.ErrorIs(t, err, ErrConflict)
	require.EqualError(t, err, "order ORD-1 is delivered: conflict")
}

func TestValidatorUsesJSONNames(t *testing.T) {
	type address struct {
		City string `json:"city" validate:"required"`
	}
	type input struct {
		Name    string  `json:"name" validate:"required"`
		Email   string  `json:"email" validate:"email"`
		Rating  float64 `json:"rating" validate:"gte=0,lte=5"`
		Terms   string  `json:"paymentTerms" validate:"oneof=NET_30 NET_60"`
		Address address `json:"address"`
	}

	verr := NewValidator().Struct(input{Email: "nope", Rating: 7, Terms: "COD"})
	require.Equal(t, []string{"address.city", "email", "name", "paymentTerms", "rating"}, verr.FieldNames())
	require.Equal(t, "must be one of [NET_30 NET_60]", verr.Fields["paymentTerms"])
	require.Equal(t, "must be at most 5", verr.Fields["rating"])

	ok := NewValidator().Struct(input{Name: "a", Email: "a@b.co", Terms: "NET_30", Address: address{City: "x"}})
	require.True(t, ok.Empty())
}

func TestAsOfContext(t *testing.T) {
	pinned := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	ctx := ContextWithAsOf(context.Background(), pinned)
	require.Equal(t, pinned, AsOfFromContext(ctx))
	require.WithinDuration(t, time.Now(), AsOfFromContext(context.Background()), time.Minute)
}

func TestTimestampAndLockKey(t *testing.T) {
	local := time.Date(2024, 1, 15, 12, 0, 0, 1500, time.FixedZone("WIB", 7*3600))
	got := Timestamp(local)
	require.Equal(t, time.UTC, got.Location())
	require.Equal(t, 1000, got.Nanosecond())
	require.Equal(t, "sequence:order:20240115:lock", SequenceLockKey("order", "20240115"))
}
