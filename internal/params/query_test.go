package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want RawQuery
	}{
		{raw: "", want: nil},
		{raw: "id=42", want: RawQuery{{Name: "id", Value: "42"}}},
		{raw: "id=42&extra=x", want: RawQuery{{Name: "id", Value: "42"}, {Name: "extra", Value: "x"}}},
		{raw: "b=2&a=1", want: RawQuery{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}}},
		{raw: "flag", want: RawQuery{{Name: "flag", Value: ""}}},
		{raw: "id=", want: RawQuery{{Name: "id", Value: ""}}},
		{raw: "&&id=1&", want: RawQuery{{Name: "id", Value: "1"}}},
		{raw: "q=a+b%21", want: RawQuery{{Name: "q", Value: "a b!"}}},
		{raw: "q=a=b", want: RawQuery{{Name: "q", Value: "a=b"}}},
		{raw: "bad=%zz&id=1", want: RawQuery{{Name: "id", Value: "1"}}},
		{raw: "%zz=1&id=1", want: RawQuery{{Name: "id", Value: "1"}}},
		{raw: "=orphan&id=1", want: RawQuery{{Name: "id", Value: "1"}}},
		{raw: "id=1&id=2", want: RawQuery{{Name: "id", Value: "1"}, {Name: "id", Value: "2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.raw))
		})
	}
}
