package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		number string
		want   string
	}{
		{"plain sixteen digits", "4111111111111111", "**** **** **** 1111"},
		{"spaced number", "4222 2222 2222 2345", "**** **** **** 2345"},
		{"short number kept whole", "1234", "**** **** **** 1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MaskNumber(tt.number))
		})
	}
}
