package protocol


import (
	"time"
)


const ORDER_TIME_LAYOUT string = "20060102150405"


// Korea Standard Time. The zone has no daylight saving so a fixed offset is
// exact and does not depend on the host zone database.
//
var KST *time.Location = time.FixedZone("KST", 9 * 60 * 60)


func FormatOrderTime(t time.Time) string {
	return t.In(KST).Format(ORDER_TIME_LAYOUT)
}

func ParseOrderTime(value string) (time.Time, error) {
	return time.ParseInLocation(ORDER_TIME_LAYOUT, value, KST)
}
