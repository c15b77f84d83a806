package utils

import (
	"time"
)

// YearFraction computes year fraction between two dates using ACT/360,
// ACT/365F, 30/360 (US) or 30E/360. Any other convention is treated as
// ACT/365F.
func YearFraction(start, end time.Time, convention string) float64 {
	days := end.Sub(start).Hours() / 24
	switch convention {
	case "30/360", "30E/360":
		y1, m1, d1 := start.Date()
		y2, m2, d2 := end.Date()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && (convention == "30E/360" || d1 == 30) {
			d2 = 30
		}
		return float64(360*(y2-y1)+30*(int(m2)-int(m1))+(d2-d1)) / 360.0
	case "ACT/360":
		return days / 360.0
	case "ACT/365F":
		return days / 365.0
	default:
		return days / 365.0
	}
}
