// Package datefmt formats dates with date-fns style patterns and renders
// relative times, in Korean by default.
package datefmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultPattern is used by Format when the pattern is empty.
const DefaultPattern = "yyyy-MM-dd"

// Locale holds the names used by the text tokens and the relative time
// magnitudes. A nil Magnitudes uses the humanize defaults.
type Locale struct {
	Name          string
	Months        [12]string
	ShortMonths   [12]string
	ShortWeekdays [7]string
	Weekdays      [7]string
	AM, PM        string
	Past, Future  string
	Magnitudes    []humanize.RelTimeMagnitude
}

var Korean = &Locale{
	Name:          "ko",
	Months:        [12]string{"1월", "2월", "3월", "4월", "5월", "6월", "7월", "8월", "9월", "10월", "11월", "12월"},
	ShortMonths:   [12]string{"1월", "2월", "3월", "4월", "5월", "6월", "7월", "8월", "9월", "10월", "11월", "12월"},
	ShortWeekdays: [7]string{"일", "월", "화", "수", "목", "금", "토"},
	Weekdays:      [7]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"},
	AM:            "오전",
	PM:            "오후",
	Past:          "전",
	Future:        "후",
	Magnitudes: []humanize.RelTimeMagnitude{
		{D: time.Minute, Format: "1분 미만 %s", DivBy: 1},
		{D: 2 * time.Minute, Format: "1분 %s", DivBy: 1},
		{D: time.Hour, Format: "%d분 %s", DivBy: time.Minute},
		{D: 2 * time.Hour, Format: "약 1시간 %s", DivBy: 1},
		{D: humanize.Day, Format: "약 %d시간 %s", DivBy: time.Hour},
		{D: 2 * humanize.Day, Format: "1일 %s", DivBy: 1},
		{D: humanize.Month, Format: "%d일 %s", DivBy: humanize.Day},
		{D: 2 * humanize.Month, Format: "약 1개월 %s", DivBy: 1},
		{D: humanize.Year, Format: "%d개월 %s", DivBy: humanize.Month},
		{D: 2 * humanize.Year, Format: "약 1년 %s", DivBy: 1},
		{D: math.MaxInt64, Format: "약 %d년 %s", DivBy: humanize.Year},
	},
}

var English = &Locale{
	Name: "en",
	Months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	ShortMonths: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	ShortWeekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	Weekdays:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	AM:            "AM",
	PM:            "PM",
	Past:          "ago",
	Future:        "from now",
}

// LocaleFor returns the locale with the given name, falling back to Korean.
func LocaleFor(name string) *Locale {
	lang, _, _ := strings.Cut(strings.ToLower(name), "-")
	if lang == English.Name {
		return English
	}
	return Korean
}

// Parse accepts an RFC 3339 timestamp or a bare "2006-01-02" date.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("datefmt: invalid date %q", s)
	}
	return t, nil
}

// Format renders t with a date-fns pattern in Korean.
func Format(t time.Time, pattern string) string {
	return Korean.Format(t, pattern)
}

// FormatString parses s with Parse and formats it.
func FormatString(s, pattern string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(t, pattern), nil
}

// Format renders t with a date-fns pattern. Supported tokens: y yy yyyy,
// M MM MMM MMMM, d dd, E..EEE EEEE, H HH, h hh, m mm, s ss, a. Text inside
// single quotes is copied as is, and '' is a literal quote. Other letters
// are copied unchanged.
func (l *Locale) Format(t time.Time, pattern string) string {
	if pattern == "" {
		pattern = DefaultPattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		if c == '\'' {
			i = quoted(&b, pattern, i)
			continue
		}
		j := i
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		if isLetter(c) {
			b.WriteString(l.token(t, c, j-i))
		} else {
			b.WriteString(pattern[i:j])
		}
		i = j
	}
	return b.String()
}

// quoted copies the quoted section starting at pattern[i] and returns the
// index following it.
func quoted(b *strings.Builder, pattern string, i int) int {
	if i+1 < len(pattern) && pattern[i+1] == '\'' {
		b.WriteByte('\'')
		return i + 2
	}
	for j := i + 1; j < len(pattern); j++ {
		if pattern[j] != '\'' {
			b.WriteByte(pattern[j])
			continue
		}
		if j+1 < len(pattern) && pattern[j+1] == '\'' {
			b.WriteByte('\'')
			j++
			continue
		}
		return j + 1
	}
	return len(pattern)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (l *Locale) token(t time.Time, c byte, n int) string {
	switch c {
	case 'y':
		if n == 2 {
			return pad(t.Year()%100, 2)
		}
		return pad(t.Year(), n)
	case 'M':
		switch {
		case n >= 4:
			return l.Months[t.Month()-1]
		case n == 3:
			return l.ShortMonths[t.Month()-1]
		default:
			return pad(int(t.Month()), n)
		}
	case 'd':
		return pad(t.Day(), n)
	case 'E':
		if n >= 4 {
			return l.Weekdays[t.Weekday()]
		}
		return l.ShortWeekdays[t.Weekday()]
	case 'H':
		return pad(t.Hour(), n)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, n)
	case 'm':
		return pad(t.Minute(), n)
	case 's':
		return pad(t.Second(), n)
	case 'a':
		if t.Hour() < 12 {
			return l.AM
		}
		return l.PM
	}
	return strings.Repeat(string(c), n)
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// RelativeTime describes t relative to the current time in Korean, for
// example "3일 전".
func RelativeTime(t time.Time) string {
	return Korean.Relative(t, time.Now())
}

// Relative describes t relative to now.
func (l *Locale) Relative(t, now time.Time) string {
	if l.Magnitudes == nil {
		return humanize.RelTime(t, now, l.Past, l.Future)
	}
	return humanize.CustomRelTime(t, now, l.Past, l.Future, l.Magnitudes)
}
