package examcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYearOf(t *testing.T) {
	testCases := []struct {
		code string
		year int
	}{
		{"INF.03-12-25.01-SG", 2025},
		{"INF.02-01-24.05-SG", 2024},
		{"EE.08-03-22.06-SG", 2022},
		{"E.12-04-14.01-SG", 2014},
		{"E.13-02-19.06", 2019},
	}

	for _, test := range testCases {
		year, err := YearOf(test.code)
		require.NoError(t, err, test.code)
		require.Equal(t, test.year, year, test.code)
	}
}

func TestYearOfMalformed(t *testing.T) {
	for _, code := range []string{
		"E.12-AB",
		"",
		"INF.02",
		"INF.02-01-xx.05-SG",
	} {
		_, err := YearOf(code)
		require.ErrorIs(t, err, ErrMalformedCode, code)
	}
}

func TestProfileOf(t *testing.T) {
	require.Equal(t, "inf02", ProfileOf("INF.02-01-24.05-SG"))
	require.Equal(t, "ee08", ProfileOf("EE.08-05-23.01-SG"))
	require.Equal(t, "e12", ProfileOf("E.12-04-14.01-SG"))
}
