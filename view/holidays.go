package view

import (
	"strings"

	"github.com/cyp0633/calview/calendar"
)

var fixedHolidays = map[string]string{
	"01-01": "신정",
	"03-01": "삼일절",
	"05-05": "어린이날",
	"06-06": "현충일",
	"08-15": "광복절",
	"10-03": "개천절",
	"10-09": "한글날",
	"12-25": "크리스마스",
}

// Lunar holidays move every year and are listed per date.
var lunarHolidays = map[string]string{
	"2024-02-09": "설날", "2024-02-10": "설날", "2024-02-11": "설날",
	"2024-09-16": "추석", "2024-09-17": "추석", "2024-09-18": "추석",
	"2025-01-28": "설날", "2025-01-29": "설날", "2025-01-30": "설날",
	"2025-10-05": "추석", "2025-10-06": "추석", "2025-10-07": "추석",
	"2026-02-16": "설날", "2026-02-17": "설날", "2026-02-18": "설날",
	"2026-09-24": "추석", "2026-09-25": "추석", "2026-09-26": "추석",
}

// Holidays returns the public holidays of the given month keyed by
// YYYY-MM-DD. Months outside 1-12 have none.
func Holidays(year, month int) map[string]string {
	out := map[string]string{}
	if month < 1 || month > 12 {
		return out
	}
	y, m := calendar.FillZero(year, 4), calendar.FillZero(month, 2)
	for monthDay, name := range fixedHolidays {
		if strings.HasPrefix(monthDay, m+"-") {
			out[y+"-"+monthDay] = name
		}
	}
	for date, name := range lunarHolidays {
		if strings.HasPrefix(date, y+"-"+m+"-") {
			out[date] = name
		}
	}
	return out
}
