package app

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hotel_finder/internal/domain"
)

// DateLayout renders dates as day.month.year.
const DateLayout = "02.01.2006"

// dateInputLayout accepts day and month with or without a leading zero.
const dateInputLayout = "2.1.2006"

// maxResultCount caps the requested number of hotels.
const maxResultCount = 1000

var priceRangeRe = regexp.MustCompile(`^\d+-\d{1,10}$`)

var boolWords = map[string]bool{
	"да":  true,
	"yes": true,
	"нет": false,
	"no":  false,
}

func ParseNumber(text string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse %q: %w", text, domain.ErrNotNumeric)
	}
	return f, nil
}

// ParsePositive parses a number strictly greater than zero.
func ParsePositive(text string) (float64, error) {
	f, err := ParseNumber(text)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("parse %q: %w", text, domain.ErrNotPositive)
	}
	return f, nil
}

// ParseResultCount truncates fractional input to a whole count of at least one.
// Counts above maxResultCount are capped.
func ParseResultCount(text string) (int, error) {
	f, err := ParsePositive(text)
	if err != nil {
		return 0, err
	}
	if f > maxResultCount {
		return maxResultCount, nil
	}
	n := int(f)
	if n < 1 {
		return 0, fmt.Errorf("parse %q: %w", text, domain.ErrNotPositive)
	}
	return n, nil
}

func ParseDate(text string) (time.Time, error) {
	d, err := time.Parse(dateInputLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", text, domain.ErrWrongDateFormat)
	}
	return d, nil
}

// ValidateFuture fails unless d is strictly after now.
func ValidateFuture(d, now time.Time) error {
	if !d.After(now) {
		return fmt.Errorf("date %s: %w", d.Format(DateLayout), domain.ErrPastDate)
	}
	return nil
}

func ValidateCheckOut(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return fmt.Errorf("check-out %s: %w", checkOut.Format(DateLayout), domain.ErrEndBeforeStart)
	}
	return nil
}

// ParsePriceRange accepts "<min>-<max>" with non-negative whole numbers.
func ParsePriceRange(text string) (domain.PriceRange, error) {
	s := strings.TrimSpace(text)
	if !priceRangeRe.MatchString(s) {
		return domain.PriceRange{}, fmt.Errorf("price range %q: %w", text, domain.ErrWrongPriceRangeFormat)
	}
	a, b, _ := strings.Cut(s, "-")
	lo, err1 := strconv.ParseFloat(a, 64)
	hi, err2 := strconv.ParseFloat(b, 64)
	if err1 != nil || err2 != nil {
		return domain.PriceRange{}, fmt.Errorf("price range %q: %w", text, domain.ErrWrongPriceRangeFormat)
	}
	if hi <= 0 || lo < 0 {
		return domain.PriceRange{}, fmt.Errorf("price range %q: %w", text, domain.ErrNotPositive)
	}
	if hi <= lo {
		return domain.PriceRange{}, fmt.Errorf("price range %q: %w", text, domain.ErrRangeInverted)
	}
	return domain.PriceRange{Min: lo, Max: hi}, nil
}

func ParseBool(text string) (bool, error) {
	v, ok := boolWords[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return false, fmt.Errorf("answer %q: %w", text, domain.ErrWrongBooleanFormat)
	}
	return v, nil
}
