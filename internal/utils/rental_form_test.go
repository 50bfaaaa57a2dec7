package utils_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-comic-rental/internal/rentals"
	"github.com/Keoroanthony/go-comic-rental/internal/utils"
)

func TestParseRentalDetails(t *testing.T) {
	form := url.Values{
		"CustomerID":                   {"1"},
		"RentalDetails[1].ComicBookID": {"7"},
		"RentalDetails[1].Quantity":    {"1"},
		"RentalDetails[1].PricePerDay": {"2.00"},
		"RentalDetails[0].ComicBookID": {" 5 "},
		"RentalDetails[0].Quantity":    {"2"},
		"RentalDetails[0].PricePerDay": {"1.50"},
		"RentalDetails[4].ComicBookID": {""},
		"RentalDetails[4].Quantity":    {""},
		"RentalDetails[x].Quantity":    {"9"},
	}

	rows := utils.ParseRentalDetails(form)
	require.Len(t, rows, 2)
	assert.Equal(t, utils.DetailRow{Index: 0, ComicBookID: "5", Quantity: "2", PricePerDay: "1.50"}, rows[0])
	assert.Equal(t, 1, rows[1].Index)

	line, err := rows[0].Line()
	require.NoError(t, err)
	assert.Equal(t, uint(5), line.ComicBookID)
	assert.Equal(t, 2, line.Quantity)
	require.NotNil(t, line.PricePerDay)
	assert.Equal(t, "1.5", line.PricePerDay.String())
}

func TestDetailRowLine(t *testing.T) {
	t.Run("Trailing zeros past two places are accepted", func(t *testing.T) {
		line, err := utils.DetailRow{ComicBookID: "3", Quantity: "1", PricePerDay: "1.500"}.Line()
		require.NoError(t, err)
		assert.Equal(t, "1.50", line.PricePerDay.StringFixed(2))
	})

	t.Run("Empty price is left for the snapshot", func(t *testing.T) {
		line, err := utils.DetailRow{ComicBookID: "3", Quantity: "1"}.Line()
		require.NoError(t, err)
		assert.Nil(t, line.PricePerDay)
	})

	cases := []struct {
		name  string
		row   utils.DetailRow
		field string
	}{
		{"comic book id", utils.DetailRow{Index: 2, ComicBookID: "abc", Quantity: "1"}, "RentalDetails[2].ComicBookID"},
		{"quantity", utils.DetailRow{Index: 0, ComicBookID: "3", Quantity: "1.5"}, "RentalDetails[0].Quantity"},
		{"price", utils.DetailRow{Index: 1, ComicBookID: "3", Quantity: "1", PricePerDay: "cheap"}, "RentalDetails[1].PricePerDay"},
		{"zero quantity", utils.DetailRow{Index: 0, ComicBookID: "3", Quantity: "0"}, "RentalDetails[0].Quantity"},
		{"negative price", utils.DetailRow{Index: 3, ComicBookID: "3", Quantity: "1", PricePerDay: "-1.00"}, "RentalDetails[3].PricePerDay"},
		{"sub-cent price", utils.DetailRow{Index: 0, ComicBookID: "3", Quantity: "1", PricePerDay: "0.005"}, "RentalDetails[0].PricePerDay"},
	}
	for _, tc := range cases {
		t.Run("Rejects malformed "+tc.name, func(t *testing.T) {
			_, err := tc.row.Line()
			var ve *rentals.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}
