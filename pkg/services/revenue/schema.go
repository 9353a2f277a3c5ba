package revenue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrColumnNotFound is returned when a required header cannot be located in
// the sheet's first row.
var ErrColumnNotFound = fmt.Errorf("column not found")

var dateRowPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Rows whose date cell contains any of these are running subtotals, not
// daily entries.
var sentinelMarkers = []string{"누적", "누계", "cumulative", "to-date"}

var dateKeywords = []string{"날짜", "일자", "date"}
var totalKeywords = []string{"총매출", "합계", "총합", "total"}

// categoryKeywords maps a header substring to the canonical breakdown key.
// The sheet owner renames columns freely; substring matching has survived
// more renames than exact matching did.
var categoryKeywords = []struct {
	Keyword string
	Name    string
}{
	{"베이직", "베이직 모드"},
	{"프로", "프로 모드"},
	{"마켓 수수료", "마켓 수수료"},
	{"마켓", "마켓"},
	{"스왑", "스왑"},
	{"브리지", "브리지"},
	{"광고", "광고"},
	{"구독", "구독"},
	{"NFT", "NFT"},
	{"민팅", "민팅"},
	{"신발", "신발 판매"},
	{"수리", "수리"},
	{"레벨업", "레벨업"},
	{"슬롯", "슬롯"},
	{"아이템", "아이템"},
	{"기프트", "기프트카드"},
	{"제휴", "제휴"},
	{"이벤트", "이벤트"},
	{"커미션", "커미션"},
	{"기타", "기타"},
}

type column struct {
	Index  int
	Header string
	Name   string // canonical breakdown key, empty for date/total
}

// columnSchema is the detected layout of one month's sheet tab.
type columnSchema struct {
	Date       column
	Total      column
	Categories []column // in sheet order
}

// detectSchema scans the header row. Date and total are required; any subset
// of the known categories may be present.
func detectSchema(header []string) (*columnSchema, error) {
	s := &columnSchema{Date: column{Index: -1}, Total: column{Index: -1}}

	for i, raw := range header {
		h := strings.TrimSpace(raw)
		lower := strings.ToLower(h)

		if s.Date.Index < 0 && matchesAny(lower, dateKeywords) {
			s.Date = column{Index: i, Header: h}
			continue
		}
		if s.Total.Index < 0 && matchesAny(lower, totalKeywords) {
			s.Total = column{Index: i, Header: h}
			continue
		}
		for _, cat := range categoryKeywords {
			if strings.Contains(lower, strings.ToLower(cat.Keyword)) {
				s.Categories = append(s.Categories, column{Index: i, Header: h, Name: cat.Name})
				break
			}
		}
	}

	if s.Date.Index < 0 {
		return nil, fmt.Errorf("%w: date", ErrColumnNotFound)
	}
	if s.Total.Index < 0 {
		return nil, fmt.Errorf("%w: total", ErrColumnNotFound)
	}
	return s, nil
}

func matchesAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// isValidDateRow accepts only YYYY-MM-DD shaped strings and rejects subtotal
// sentinel rows. The shape is not checked for calendar validity; the sheet
// has never contained a month 13 and the prompt tolerates one if it ever
// does.
func isValidDateRow(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, marker := range sentinelMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return false
		}
	}
	return dateRowPattern.MatchString(strings.TrimSpace(s))
}

// parseAmount turns a currency cell into an integer KRW amount. Anything
// unparseable counts as zero; the sheet mixes "₩1,234,567", "1234567" and
// blank cells.
func parseAmount(cell string) int64 {
	cleaned := strings.NewReplacer("₩", "", ",", "", " ", "", "원", "").Replace(strings.TrimSpace(cell))
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
