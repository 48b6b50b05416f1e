package adapter

import (
	"context"
	"encoding/json"
	"errors"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/core/store"
	"sales-manager/internal/features/auth/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const accountsCollection = "auth/accounts"

// StoreAccountRegistry implements ports.AccountRegistry on the document store.
// Accounts are keyed by normalized e-mail; passwords are kept as bcrypt hashes.
type StoreAccountRegistry struct {
	store  store.DocumentStore
	cost   int
	logger *zap.Logger
}

// NewStoreAccountRegistry creates a registry hashing with the given bcrypt cost.
// An out-of-range cost falls back to bcrypt.DefaultCost.
func NewStoreAccountRegistry(s store.DocumentStore, cost int) *StoreAccountRegistry {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &StoreAccountRegistry{
		store:  s,
		cost:   cost,
		logger: logger.Named("account-registry"),
	}
}

// Register creates an account. The e-mail must not be registered yet.
func (r *StoreAccountRegistry) Register(ctx context.Context, email, password string) (domain.Account, error) {
	if err := domain.ValidateCredentials(email, password); err != nil {
		return domain.Account{}, failure.Auth(failure.CauseInvalidInput, "", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return domain.Account{}, failure.Auth(failure.CauseInvalidInput, "", err)
	}
	if err != nil {
		return domain.Account{}, failure.Auth(failure.CauseUnknown, "", err)
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return domain.Account{}, failure.Persistence(failure.CauseKeyGeneration, "Falha ao gerar chave única", err)
	}

	account := domain.Account{
		UID:          uid.String(),
		Email:        domain.NormalizeEmail(email),
		PasswordHash: string(hash),
	}
	doc, err := json.Marshal(account)
	if err != nil {
		return domain.Account{}, failure.Auth(failure.CauseUnknown, "", err)
	}

	created, err := r.store.Create(ctx, accountsCollection, account.Email, doc)
	if err != nil {
		r.logger.Error("Failed to store account", zap.Error(err))
		return domain.Account{}, failure.Auth(failure.CauseNetwork, "", err)
	}
	if !created {
		return domain.Account{}, failure.Auth(failure.CauseEmailInUse, "E-mail já cadastrado.", nil)
	}

	r.logger.Info("Account registered", zap.String("uid", account.UID))
	return account, nil
}

// Verify checks an e-mail/password pair and returns the account's user.
func (r *StoreAccountRegistry) Verify(ctx context.Context, email, password string) (domain.User, error) {
	key := domain.NormalizeEmail(email)
	if key == "" || password == "" {
		return domain.User{}, failure.Auth(failure.CauseInvalidInput, "", domain.ErrMissingCredentials)
	}

	doc, err := r.store.Fetch(ctx, accountsCollection, key)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, failure.Auth(failure.CauseInvalidUser, "", nil)
	}
	if err != nil {
		r.logger.Error("Failed to read account", zap.Error(err))
		return domain.User{}, failure.Auth(failure.CauseNetwork, "", err)
	}

	var account domain.Account
	if err := json.Unmarshal(doc, &account); err != nil {
		r.logger.Error("Corrupt account document", zap.String("email", key), zap.Error(err))
		return domain.User{}, failure.Auth(failure.CauseUnknown, "", err)
	}
	if account.Disabled {
		return domain.User{}, failure.Auth(failure.CauseInvalidUser, "", nil)
	}

	err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.User{}, failure.Auth(failure.CauseInvalidCredentials, "", nil)
	}
	if err != nil {
		return domain.User{}, failure.Auth(failure.CauseUnknown, "", err)
	}

	return account.User(), nil
}
