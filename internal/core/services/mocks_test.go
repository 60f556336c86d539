package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionManager ---
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// expectTx sets up a transaction that begins, is always rolled back on exit and,
// when committed is true, commits.
func expectTx(m *MockTxManager, committed bool) {
	m.On("Begin", mock.Anything).Return(nil, nil).Once()
	if committed {
		m.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	}
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

var _ portsrepo.CurrencyRepositoryFacade = (*MockCurrencyRepository)(nil)

func (m *MockCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context, includeArchived bool) ([]domain.Currency, error) {
	args := m.Called(ctx, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) AddCash(ctx context.Context, currencyID string, amount decimal.Decimal, userID string, now time.Time) (*domain.Currency, error) {
	args := m.Called(ctx, currencyID, amount, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SetCurrencyArchived(ctx context.Context, currencyID string, archived bool, userID string, now time.Time) error {
	args := m.Called(ctx, currencyID, archived, userID, now)
	return args.Error(0)
}

func (m *MockCurrencyRepository) DeleteCurrency(ctx context.Context, currencyID string) error {
	args := m.Called(ctx, currencyID)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrenciesByIDsForUpdate(ctx context.Context, tx pgx.Tx, currencyIDs []string) (map[string]domain.Currency, error) {
	args := m.Called(ctx, tx, currencyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindCurrencyByCodeForUpdate(ctx context.Context, tx pgx.Tx, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, tx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrencyInTx(ctx context.Context, tx pgx.Tx, currency domain.Currency) error {
	args := m.Called(ctx, tx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) UpdateCurrencyBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, deltas, userID, now)
	return args.Error(0)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) FindExchangeRateByID(ctx context.Context, exchangeRateID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, exchangeRateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindEffectiveRate(ctx context.Context, currencyID string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currencyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, currencyID string) ([]domain.ExchangeRateListing, error) {
	args := m.Called(ctx, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateListing), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) DeleteExchangeRate(ctx context.Context, exchangeRateID string) error {
	args := m.Called(ctx, exchangeRateID)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindEffectiveRateInTx(ctx context.Context, tx pgx.Tx, currencyID string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, tx, currencyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRateInTx(ctx context.Context, tx pgx.Tx, rate domain.ExchangeRate) error {
	args := m.Called(ctx, tx, rate)
	return args.Error(0)
}

// --- Mock ExchangeTransactionRepository ---
type MockExchangeTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeTransactionRepositoryFacade = (*MockExchangeTransactionRepository)(nil)

func (m *MockExchangeTransactionRepository) FindExchangeTransactionByID(ctx context.Context, transactionID string) (*domain.ExchangeTransactionView, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeTransactionView), args.Error(1)
}

func (m *MockExchangeTransactionRepository) ListExchangeTransactions(ctx context.Context, filter portsrepo.ExchangeTransactionFilter) ([]domain.ExchangeTransactionView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeTransactionView), args.Error(1)
}

func (m *MockExchangeTransactionRepository) SaveExchangeTransactionsInTx(ctx context.Context, tx pgx.Tx, transactions []domain.ExchangeTransaction) error {
	args := m.Called(ctx, tx, transactions)
	return args.Error(0)
}

func (m *MockExchangeTransactionRepository) DeleteExchangeTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry *time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) GetOfficialRate(ctx context.Context, currencyCode string, onDate time.Time) (*domain.OfficialRate, error) {
	args := m.Called(ctx, currencyCode, onDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfficialRate), args.Error(1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
