package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// expected CSV header, case-insensitive. The cost column carries the
// home currency in its name but any equivalent home-currency column is
// accepted by position (ticker, shares, cost).
var expectedHeader = []string{"Ticker", "Shares", "AvgCostJPY"}

// RowError describes one rejected CSV row.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// LoadCSV parses an uploaded positions file. The header row is
// required. Malformed rows are rejected here so the analytics core
// never sees them; duplicated tickers resolve last-write-wins while
// preserving first-seen order.
func LoadCSV(r io.Reader) ([]Position, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, nil, err
	}

	var (
		positions []Position
		rowErrors []RowError
		byTicker  = make(map[string]int)
		line      = 1
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: err.Error()})
			continue
		}

		pos, rowErr := parseRow(record, line)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}

		if idx, seen := byTicker[pos.Ticker]; seen {
			positions[idx] = pos
			continue
		}
		byTicker[pos.Ticker] = len(positions)
		positions = append(positions, pos)
	}

	return positions, rowErrors, nil
}

func parseRow(record []string, line int) (Position, *RowError) {
	if len(record) < 3 {
		return Position{}, &RowError{Line: line, Message: "expected 3 columns"}
	}

	ticker := strings.TrimSpace(record[0])
	if ticker == "" {
		return Position{}, &RowError{Line: line, Message: "ticker is empty"}
	}

	// ParseFloat accepts NaN and ±Inf spellings; those must never reach
	// the P&L math, so finiteness is part of "valid".
	shares, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil || !isFinite(shares) {
		return Position{}, &RowError{Line: line, Message: fmt.Sprintf("invalid shares %q", record[1])}
	}
	if shares <= 0 {
		return Position{}, &RowError{Line: line, Message: fmt.Sprintf("shares must be positive, got %v", shares)}
	}

	avgCost, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil || !isFinite(avgCost) {
		return Position{}, &RowError{Line: line, Message: fmt.Sprintf("invalid average cost %q", record[2])}
	}
	if avgCost < 0 {
		return Position{}, &RowError{Line: line, Message: fmt.Sprintf("average cost must be non-negative, got %v", avgCost)}
	}

	return Position{Ticker: ticker, Shares: shares, AvgCostHome: avgCost}, nil
}

// checkHeader requires the Ticker and Shares columns by name,
// case-insensitively. The third column only needs to be present: any
// home-currency cost column name is accepted by position.
func checkHeader(header []string) error {
	if len(header) < 3 {
		return fmt.Errorf("CSV header must have 3 columns (%s), got %d", strings.Join(expectedHeader, ","), len(header))
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), expectedHeader[0]) ||
		!strings.EqualFold(strings.TrimSpace(header[1]), expectedHeader[1]) ||
		strings.TrimSpace(header[2]) == "" {
		return fmt.Errorf("CSV header must be %s, got %s", strings.Join(expectedHeader, ","), strings.Join(header, ","))
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
