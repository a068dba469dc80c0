package ranker

import (
	"sort"
	"strconv"
)

// Row is one line of the ranking table
type Row struct {
	TemplateID string
	GreenRatio float64
	BlueRatio  float64
	GreenRank  int
	BlueRank   int
}

// LessID orders template ids numerically when both parse as integers,
// lexically otherwise
func LessID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil && ai != bi {
		return ai < bi
	}
	return a < b
}

// Rank assigns 1-based green and blue ranks, highest ratio first with ties
// broken by template id. Rows are returned in green-rank order.
func Rank(scores []Score) []Row {
	rows := make([]Row, len(scores))
	for i, s := range scores {
		rows[i] = Row{TemplateID: s.TemplateID, GreenRatio: s.Green, BlueRatio: s.Blue}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return before(rows[i].BlueRatio, rows[j].BlueRatio, rows[i].TemplateID, rows[j].TemplateID)
	})
	for i := range rows {
		rows[i].BlueRank = i + 1
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return before(rows[i].GreenRatio, rows[j].GreenRatio, rows[i].TemplateID, rows[j].TemplateID)
	})
	for i := range rows {
		rows[i].GreenRank = i + 1
	}

	return rows
}

func before(ra, rb float64, ida, idb string) bool {
	if ra != rb {
		return ra > rb
	}
	return LessID(ida, idb)
}
