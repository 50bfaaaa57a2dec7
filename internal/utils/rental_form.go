package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Keoroanthony/go-comic-rental/internal/rentals"
)

var detailKey = regexp.MustCompile(`^RentalDetails\[(\d+)\]\.(ComicBookID|Quantity|PricePerDay)$`)

// DetailRow is one posted line item, kept as raw strings so a failed form
// can be redisplayed with what the user typed.
type DetailRow struct {
	Index       int
	ComicBookID string
	Quantity    string
	PricePerDay string
}

func (r DetailRow) blank() bool {
	return r.ComicBookID == "" && r.Quantity == "" && r.PricePerDay == ""
}

// ParseRentalDetails collects RentalDetails[i].Field inputs in index order.
// Rows where every field is empty are dropped.
func ParseRentalDetails(form url.Values) []DetailRow {
	byIndex := map[int]*DetailRow{}
	for key, values := range form {
		m := detailKey.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		row, ok := byIndex[idx]
		if !ok {
			row = &DetailRow{Index: idx}
			byIndex[idx] = row
		}
		v := strings.TrimSpace(values[0])
		switch m[2] {
		case "ComicBookID":
			row.ComicBookID = v
		case "Quantity":
			row.Quantity = v
		case "PricePerDay":
			row.PricePerDay = v
		}
	}

	rows := make([]DetailRow, 0, len(byIndex))
	for _, row := range byIndex {
		if !row.blank() {
			rows = append(rows, *row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })
	return rows
}

// Line converts the row into service input. An empty price is left nil so
// the comic book's current price is used.
func (r DetailRow) Line() (rentals.LineInput, error) {
	var line rentals.LineInput

	id, err := strconv.ParseUint(r.ComicBookID, 10, 64)
	if err != nil || id == 0 {
		return line, r.invalid("ComicBookID", "must reference a comic book")
	}
	line.ComicBookID = uint(id)

	qty, err := strconv.Atoi(r.Quantity)
	if err != nil {
		return line, r.invalid("Quantity", "must be a whole number")
	}
	if qty < 1 {
		return line, r.invalid("Quantity", "must be a positive integer")
	}
	line.Quantity = qty

	if r.PricePerDay != "" {
		price, err := decimal.NewFromString(r.PricePerDay)
		if err != nil {
			return line, r.invalid("PricePerDay", "must be a decimal amount")
		}
		if reason := rentals.CheckPrice(price); reason != "" {
			return line, r.invalid("PricePerDay", reason)
		}
		line.PricePerDay = &price
	}
	return line, nil
}

func (r DetailRow) invalid(field, reason string) error {
	return &rentals.ValidationError{
		Field:  fmt.Sprintf("RentalDetails[%d].%s", r.Index, field),
		Reason: reason,
	}
}
