package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DateLayout renders dates as "Jan 02, 2006".
const DateLayout = "Jan 02, 2006"

// DefaultTruncate is the length Truncate callers use for free text columns.
const DefaultTruncate = 50

// FormatDate renders t with DateLayout, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatDateString parses a YYYY-MM-DD or RFC 3339 string and renders it with
// DateLayout. Unparseable input yields "".
func FormatDateString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return FormatDate(t)
		}
	}
	return ""
}

// RelativeTime describes t relative to now in words, e.g. "5 minutes ago" or
// "in about 2 hours".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	words := distance(d)
	if future {
		return "in " + words
	}
	return words + " ago"
}

func distance(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		month = 30 * day
		year  = 365 * day
	)

	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return strconv.Itoa(n) + " " + unit + "s"
	}

	switch {
	case d < 30*time.Second:
		return "less than a minute"
	case d < 90*time.Second:
		return "1 minute"
	case d < 45*time.Minute:
		return plural(int(math.Round(d.Minutes())), "minute")
	case d < 90*time.Minute:
		return "about 1 hour"
	case d < day:
		return "about " + plural(int(math.Round(d.Hours())), "hour")
	case d < 42*time.Hour:
		return "1 day"
	case d < month:
		return plural(int(math.Round(d.Hours()/24)), "day")
	case d < 45*day:
		return "about 1 month"
	case d < 60*day:
		return "about 2 months"
	case d < year:
		return plural(int(d/month), "month")
	default:
		return "about " + plural(int(d/year), "year")
	}
}

// FormatPhone renders an 11 digit number as "+X (XXX) XXX-XXXX". Anything
// else is returned unchanged.
func FormatPhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(digits) != 11 {
		return phone
	}
	return fmt.Sprintf("+%s (%s) %s-%s", digits[:1], digits[1:4], digits[4:7], digits[7:])
}

// FormatCurrency renders a USD amount with thousands separators, e.g.
// "$1,234.50".
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// Truncate shortens s to limit runes and appends "..." when it had to cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Initials returns up to two upper-case initials of name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return b.String()
}
