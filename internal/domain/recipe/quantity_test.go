package recipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var zeroTime time.Time

func ptr[T any](v T) *T { return &v }

func TestNewQuantity(t *testing.T) {
	tests := []struct {
		name   string
		amount *float64
		unit   *string
		text   *string
		kind   QuantityKind
		render string
	}{
		{"amount and unit", ptr(2.0), ptr("個"), nil, QuantityStructured, "2個"},
		{"amount wins over text", ptr(1.5), ptr("g"), ptr("少々"), QuantityStructured, "1.5g"},
		{"amount without unit", ptr(3.0), nil, nil, QuantityStructured, "3"},
		{"text only", nil, nil, ptr(" 少々 "), QuantityFreeText, "少々"},
		{"unit without amount falls through", nil, ptr("g"), nil, QuantityUnknown, ""},
		{"blank text", nil, nil, ptr("  "), QuantityUnknown, ""},
		{"nothing", nil, nil, nil, QuantityUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuantity(tt.amount, tt.unit, tt.text)
			assert.Equal(t, tt.kind, q.Kind())
			assert.Equal(t, tt.render, q.String())
		})
	}
}

func TestQuantityAccessors(t *testing.T) {
	q := Structured(200, " g ")
	assert.True(t, q.IsStructured())
	assert.Equal(t, 200.0, q.Amount())
	assert.Equal(t, "g", q.Unit())
	assert.Empty(t, q.Text())

	f := FreeText("ひとつまみ")
	assert.False(t, f.IsStructured())
	assert.Equal(t, "ひとつまみ", f.Text())
	assert.Zero(t, f.Amount())
	assert.Equal(t, "free_text", f.Kind().String())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "3", FormatAmount(3))
	assert.Equal(t, "0.25", FormatAmount(0.25))
}
