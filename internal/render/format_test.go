package render

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	testCases := []struct {
		in       int64
		expected string
	}{
		{in: 0, expected: "0"},
		{in: 7, expected: "7"},
		{in: 999, expected: "999"},
		{in: 1000, expected: "1,000"},
		{in: 9999, expected: "9,999"},
		{in: 10000, expected: "1.0万"},
		{in: 12345, expected: "1.2万"},
		{in: 99999, expected: "10.0万"},
		{in: 1234567, expected: "123.5万"},
		{in: -5, expected: "-5"},
	}

	for _, test := range testCases {
		t.Run(fmt.Sprint(test.in), func(t *testing.T) {
			require.Equal(t, test.expected, FormatNumber(test.in))
		})
	}
}
