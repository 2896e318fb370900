package timing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Days between 0000-01-01 and 9999-12-31, rounded up.
const maxDayOffset = 3_652_500

// A dayMatcher recognises one grammar of relative day tokens and returns
// the offset in days from the base date. ok is false when the token is
// not written in that grammar.
type dayMatcher func(token string) (offset int64, ok bool, err error)

// Tried in order; the first grammar that recognises the token wins.
var dayMatchers = []dayMatcher{
	matchDayKeyword,
	matchEnglishPhrase,
	matchSignedOffset,
	matchJapaneseSuffix,
}

var (
	kanjiKeywords = map[string]int64{
		"今日": 0,
		"明日": 1,
		"昨日": -1,
	}
	englishKeywords = map[string]int64{
		"today":     0,
		"tomorrow":  1,
		"yesterday": -1,
	}

	englishPhrasePattern = regexp.MustCompile(`(?i)^in\s+(\d+)\s+days?$`)
	signedOffsetPattern  = regexp.MustCompile(`(?i)^([+-])(\d+)d?$`)
	daysLaterPattern     = regexp.MustCompile(`^(\d+)\s*日後$`)
	daysAgoPattern       = regexp.MustCompile(`^(\d+)\s*日前$`)
)

func matchDayKeyword(token string) (int64, bool, error) {
	if offset, ok := kanjiKeywords[token]; ok {
		return offset, true, nil
	}
	if offset, ok := englishKeywords[strings.ToLower(token)]; ok {
		return offset, true, nil
	}
	return 0, false, nil
}

func matchEnglishPhrase(token string) (int64, bool, error) {
	m := englishPhrasePattern.FindStringSubmatch(token)
	if m == nil {
		return 0, false, nil
	}
	return parseDayCount(m[1], false)
}

func matchSignedOffset(token string) (int64, bool, error) {
	m := signedOffsetPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, false, nil
	}
	return parseDayCount(m[2], m[1] == "-")
}

func matchJapaneseSuffix(token string) (int64, bool, error) {
	if m := daysLaterPattern.FindStringSubmatch(token); m != nil {
		return parseDayCount(m[1], false)
	}
	if m := daysAgoPattern.FindStringSubmatch(token); m != nil {
		return parseDayCount(m[1], true)
	}
	return 0, false, nil
}

func parseDayCount(digits string, negative bool) (int64, bool, error) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > maxDayOffset {
		return 0, true, rangeErrorf("day offset '%s' is out of range", digits)
	}
	if negative {
		n = -n
	}
	return n, true, nil
}

// ResolveRelativeDay maps a relative day token onto a calendar date
// counted from base. ok is false when no grammar recognises the token.
func ResolveRelativeDay(token string, base civil.Date) (date civil.Date, ok bool, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return civil.Date{}, false, nil
	}
	for _, match := range dayMatchers {
		offset, ok, err := match(token)
		if err != nil {
			return civil.Date{}, true, err
		}
		if !ok {
			continue
		}
		date, err := AddDays(base, offset)
		if err != nil {
			return civil.Date{}, true, err
		}
		return date, true, nil
	}
	return civil.Date{}, false, nil
}

// AddDays shifts d by n calendar days, failing instead of leaving the
// years 0000-9999.
func AddDays(d civil.Date, n int64) (civil.Date, error) {
	if n > maxDayOffset || n < -maxDayOffset {
		return civil.Date{}, rangeErrorf("date %s shifted by %d days is out of range", d, n)
	}
	out := d.AddDays(int(n))
	if !yearInRange(out.Year) {
		return civil.Date{}, rangeErrorf("date %s shifted by %d days is out of range", d, n)
	}
	return out, nil
}

func yearInRange(year int) bool {
	return year >= 0 && year <= 9999
}

func instantInRange(t time.Time) bool {
	return yearInRange(t.UTC().Year())
}
