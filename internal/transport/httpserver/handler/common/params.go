package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rental-app-go/internal/domain/lifecycle"
)

func ParseDateRequired(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return lifecycle.ParseDate(value)
}

func ParseDateParam(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := lifecycle.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func ParseCSV(value string) []string {
	parts := strings.Split(value, ",")
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}

func ParseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func ParseBoolParam(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

// Page holds limit/offset query parameters.
type Page struct {
	Limit  int
	Offset int
}

func ParsePage(limitValue, offsetValue string) (Page, error) {
	limit, err := ParseIntParam(limitValue, 50)
	if err != nil {
		return Page{}, fmt.Errorf("invalid limit")
	}
	offset, err := ParseIntParam(offsetValue, 0)
	if err != nil {
		return Page{}, fmt.Errorf("invalid offset")
	}
	return Page{Limit: limit, Offset: offset}, nil
}
