package huaweiads

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// clientTimeLayout is the vendor's clientTime format, e.g. 2021-05-10 08:30:00.000+0200
const clientTimeLayout = "2006-01-02 15:04:05.000-0700"

const defaultTimeZone = "+0200"

var (
	clientTimeWithZone    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}[+-]\d{4}$`)
	clientTimeWithoutZone = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}$`)
)

// convertClientTime rewrites a device-reported time into clientTimeLayout. It returns ""
// for values it can't read, so the field is left out rather than guessed.
func convertClientTime(clientTime string) string {
	clientTime = strings.TrimSpace(clientTime)
	switch {
	case clientTime == "":
		return ""
	case clientTimeWithZone.MatchString(clientTime):
		return clientTime
	case clientTimeWithoutZone.MatchString(clientTime):
		return clientTime + defaultTimeZone
	}

	if t, err := time.Parse(time.RFC3339Nano, clientTime); err == nil {
		return t.Format(clientTimeLayout)
	}
	if millis, err := strconv.ParseInt(clientTime, 10, 64); err == nil && millis > 0 {
		return time.UnixMilli(millis).UTC().Format(clientTimeLayout)
	}
	return ""
}
