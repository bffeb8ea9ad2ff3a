// Package sheets implements tabular.RowStore over the Google Sheets API
// using service-account credentials scoped to a single named sheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Environment variables the default configuration reads.
const (
	EnvSpreadsheetID       = "SURVEYKIT_SPREADSHEET_ID"
	EnvServiceAccountEmail = "SURVEYKIT_SERVICE_ACCOUNT_EMAIL"
	EnvPrivateKey          = "SURVEYKIT_PRIVATE_KEY"
	EnvSheetName           = "SURVEYKIT_SHEET_NAME"
)

// DefaultSheetName is used when the sheet name variable is unset.
const DefaultSheetName = "Survey Responses"

// Config carries the service credentials and sheet coordinates.
type Config struct {
	SpreadsheetID       string
	ServiceAccountEmail string
	PrivateKey          string
	SheetName           string
}

// ConfigFromEnv builds a Config from the environment. Escaped newlines in
// the PEM key are unescaped, matching how deployment tooling stores
// multi-line secrets.
func ConfigFromEnv() Config {
	cfg := Config{
		SpreadsheetID:       os.Getenv(EnvSpreadsheetID),
		ServiceAccountEmail: os.Getenv(EnvServiceAccountEmail),
		PrivateKey:          strings.ReplaceAll(os.Getenv(EnvPrivateKey), `\n`, "\n"),
		SheetName:           os.Getenv(EnvSheetName),
	}
	if cfg.SheetName == "" {
		cfg.SheetName = DefaultSheetName
	}
	return cfg
}

// Configured reports whether all credentials are present. An unconfigured
// store is a designed state, not an error; the orchestrator falls back to
// preview mode.
func (c Config) Configured() bool {
	return c.SpreadsheetID != "" && c.ServiceAccountEmail != "" && c.PrivateKey != ""
}

// Store is the Google Sheets RowStore.
type Store struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetName     string
}

// New authenticates with the service account and returns a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if !cfg.Configured() {
		return nil, errors.New("sheets: spreadsheet id, service account email and private key are required")
	}
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	auth := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	service, err := sheetsapi.NewService(ctx, option.WithHTTPClient(auth.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets: new service: %w", err)
	}

	return &Store{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (s *Store) headerRange() string {
	return fmt.Sprintf("%s!1:1", s.sheetName)
}

// ReadHeaderRow implements tabular.RowStore.
func (s *Store) ReadHeaderRow(ctx context.Context) ([]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.headerRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: get header row: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, fmt.Sprint(cell))
	}
	return headers, nil
}

// WriteHeaderRow implements tabular.RowStore.
func (s *Store) WriteHeaderRow(ctx context.Context, headers []string) error {
	payload := &sheetsapi.ValueRange{Values: [][]any{toCells(headers)}}
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, s.headerRange(), payload).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update header row: %w", err)
	}
	return nil
}

// AppendRow implements tabular.RowStore.
func (s *Store) AppendRow(ctx context.Context, row []string) error {
	payload := &sheetsapi.ValueRange{Values: [][]any{toCells(row)}}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, s.sheetName, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append row: %w", err)
	}
	return nil
}

// FormatHeaderRow implements tabular.HeaderFormatter: bold the header cells
// and auto-resize their columns. Callers treat failures as cosmetic.
func (s *Store) FormatHeaderRow(ctx context.Context, columnCount int) error {
	meta, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: get spreadsheet: %w", err)
	}
	var sheetID int64 = -1
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.sheetName {
			sheetID = sheet.Properties.SheetId
			break
		}
	}
	if sheetID < 0 {
		return fmt.Errorf("sheets: sheet %q not found", s.sheetName)
	}

	request := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				RepeatCell: &sheetsapi.RepeatCellRequest{
					Range: &sheetsapi.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    0,
						EndRowIndex:      1,
						StartColumnIndex: 0,
						EndColumnIndex:   int64(columnCount),
					},
					Cell: &sheetsapi.CellData{
						UserEnteredFormat: &sheetsapi.CellFormat{
							TextFormat: &sheetsapi.TextFormat{
								Bold:     true,
								FontSize: 11,
							},
						},
					},
					Fields: "userEnteredFormat(textFormat)",
				},
			},
			{
				AutoResizeDimensions: &sheetsapi.AutoResizeDimensionsRequest{
					Dimensions: &sheetsapi.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   int64(columnCount),
					},
				},
			},
		},
	}
	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, request).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: format header row: %w", err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return cells
}
