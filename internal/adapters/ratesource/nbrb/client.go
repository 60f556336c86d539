// Package nbrb reads official exchange rates from the National Bank of the Republic of Belarus API.
package nbrb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://api.nbrb.by"

	dateLayout     = "2006-01-02"
	responseLayout = "2006-01-02T15:04:05"
)

// rateResponse is the body of GET /exrates/rates/{code}?parammode=2.
type rateResponse struct {
	CurID           int             `json:"Cur_ID"`
	Date            string          `json:"Date"`
	CurAbbreviation string          `json:"Cur_Abbreviation"`
	CurScale        int64           `json:"Cur_Scale"`
	CurName         string          `json:"Cur_Name"`
	CurOfficialRate decimal.Decimal `json:"Cur_OfficialRate"`
}

// client calls the NBRB REST API.
type client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a RateSource backed by the NBRB API.
func NewClient(baseURL string, timeout time.Duration) portssvc.RateSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetOfficialRate loads the official rate of currencyCode on onDate. A zero onDate asks for today's rate.
func (c *client) GetOfficialRate(ctx context.Context, currencyCode string, onDate time.Time) (*domain.OfficialRate, error) {
	query := url.Values{}
	query.Set("parammode", "2")
	if !onDate.IsZero() {
		query.Set("ondate", onDate.Format(dateLayout))
	}
	endpoint := fmt.Sprintf("%s/exrates/rates/%s?%s", c.baseURL, url.PathEscape(strings.ToUpper(currencyCode)), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusBadGateway, "rate source unavailable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("rate source has no rate for %s: %w", currencyCode, apperrors.ErrRateNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.NewAppError(http.StatusBadGateway,
			fmt.Sprintf("rate source returned %s", resp.Status), fmt.Errorf("body: %s", strings.TrimSpace(string(body))))
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.NewAppError(http.StatusBadGateway, "rate source returned malformed JSON", err)
	}
	if !body.CurOfficialRate.IsPositive() {
		return nil, fmt.Errorf("rate source returned non-positive rate for %s: %w", currencyCode, apperrors.ErrRateNotFound)
	}

	rate := &domain.OfficialRate{
		CurrencyCode: body.CurAbbreviation,
		CurrencyName: body.CurName,
		OfficialRate: body.CurOfficialRate,
		Scale:        body.CurScale,
	}
	if rate.CurrencyCode == "" {
		rate.CurrencyCode = strings.ToUpper(currencyCode)
	}
	if d, err := time.Parse(responseLayout, body.Date); err == nil {
		rate.Date = domain.DateOnly(d)
	} else if !onDate.IsZero() {
		rate.Date = domain.DateOnly(onDate)
	}
	return rate, nil
}
