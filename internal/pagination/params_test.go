package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderstack/commerce-services/internal/errs"
)

func TestParseParams_Defaults(t *testing.T) {
	params, err := ParseParams("", "", 10)
	require.NoError(t, err)
	assert.Equal(t, int32(10), params.Limit)
	assert.Empty(t, params.Offset)
}

func TestParseParams_ExplicitValues(t *testing.T) {
	params, err := ParseParams("25", "order-10", 10)
	require.NoError(t, err)
	assert.Equal(t, int32(25), params.Limit)
	assert.Equal(t, "order-10", params.Offset)
}

func TestParseParams_RejectsNonPositiveLimit(t *testing.T) {
	for _, raw := range []string{"-10", "0"} {
		_, err := ParseParams(raw, "", 10)
		var ve *errs.ValidationError
		require.True(t, errors.As(err, &ve), "limit %q should be rejected", raw)
	}
}

func TestParseParams_RejectsNonIntegerLimit(t *testing.T) {
	_, err := ParseParams("lots", "", 10)
	var ve *errs.ValidationError
	require.True(t, errors.As(err, &ve))
}
