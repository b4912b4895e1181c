package watchlist

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

var _ Mirror = (*SheetMirror)(nil)

// SheetMirror 把清单镜像到 Google Sheet, 一列一码
type SheetMirror struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetMirror(svc *sheets.Service, spreadsheetID, sheetName string) *SheetMirror {
	return &SheetMirror{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
}

func (m *SheetMirror) Sync(ctx context.Context, codes []string) error {
	_, err := m.svc.Spreadsheets.Values.
		Clear(m.spreadsheetID, m.sheetName, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear watchlist sheet: %w", err)
	}
	if len(codes) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(codes))
	for _, code := range codes {
		values = append(values, []interface{}{code})
	}
	_, err = m.svc.Spreadsheets.Values.
		Update(m.spreadsheetID, m.sheetName+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update watchlist sheet: %w", err)
	}
	return nil
}
