// Package export renders the exchange ledger into spreadsheet formats.
package export

import (
	"fmt"
	"io"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/utils"
	"github.com/xuri/excelize/v2"
)

// TransactionsSheet is the name of the worksheet holding the ledger rows.
const TransactionsSheet = "Transactions"

// TransactionHeaders are the column titles of the ledger export, in order.
var TransactionHeaders = []string{
	"Created At",
	"Transaction ID",
	"Group ID",
	"Leg",
	"Operator",
	"Currency From",
	"Currency To",
	"Amount",
	"Exchanged Amount",
	"Change In Base",
	"Rate From",
	"Rate To",
}

// WriteTransactionsXLSX writes txns as a single-sheet workbook to w.
// Amounts and rates are written as fixed-point text so no precision is lost to float conversion.
func WriteTransactionsXLSX(w io.Writer, txns []domain.ExchangeTransactionView) error {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet rather than adding a second one.
	if err := f.SetSheetName(f.GetSheetName(0), TransactionsSheet); err != nil {
		return fmt.Errorf("error renaming sheet: %w", err)
	}

	for col, header := range TransactionHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("error resolving header cell: %w", err)
		}
		if err := f.SetCellValue(TransactionsSheet, cell, header); err != nil {
			return fmt.Errorf("error setting header %s: %w", header, err)
		}
	}

	for i, t := range txns {
		operator := t.OperatorUsername
		if operator == "" {
			operator = t.OperatorID
		}
		from := t.CurrencyFromName
		if from == "" {
			from = t.CurrencyFromID
		}
		to := t.CurrencyToName
		if to == "" {
			to = t.CurrencyToID
		}

		row := []any{
			t.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			t.TransactionID,
			t.GroupID,
			t.LegNumber,
			operator,
			from,
			to,
			utils.FormatAmount(t.Amount),
			utils.FormatAmount(t.ExchangedAmount),
			utils.FormatAmount(t.ChangeInBase),
			utils.FormatRate(t.RateFrom),
			utils.FormatRate(t.RateTo),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("error resolving row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(TransactionsSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(TransactionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("error freezing header row: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
