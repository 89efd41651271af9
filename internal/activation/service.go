package activation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kivu-pay/kivu_pay/internal/account"
	"github.com/kivu-pay/kivu_pay/internal/item"
	"github.com/kivu-pay/kivu_pay/internal/logging"
	"github.com/kivu-pay/kivu_pay/internal/notification"
	"github.com/kivu-pay/kivu_pay/internal/referral"
	"github.com/kivu-pay/kivu_pay/internal/wallet"
)

const (
	defaultReferralBonus = 50
	referencePrefix      = "REF"
)

var (
	// ErrValidation indicates missing or blank required registration fields.
	ErrValidation = errors.New("invalid registration input")
	// ErrInvalidCode indicates the submitted verification code is absent or mismatched.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrAccountNotFound indicates verification was attempted for an address with
	// neither a staged candidate nor a durable account.
	ErrAccountNotFound = errors.New("account not found for verification")
	// ErrReferralIneligible indicates the referred account's item record has not
	// reached SUCCESS, so the referral bonus cannot be granted.
	ErrReferralIneligible = errors.New("referral bonus not eligible")
)

// Coordinator orchestrates staged account activation: registration intake,
// one-time code issuance, code verification, commit to durable storage, and
// the wallet/item/referral side effects of a successful activation.
type Coordinator struct {
	accounts  account.Repository
	wallets   wallet.Repository
	items     item.Repository
	referrals referral.Repository
	staging   *StagingRegister
	codes     CodeRegister
	hasher    Hasher
	notifier  notification.Notifier
	logger    *slog.Logger
	bonus     int64
	addresses *keyedMutex
}

// Deps aggregates the collaborators the Coordinator drives.
type Deps struct {
	Accounts  account.Repository
	Wallets   wallet.Repository
	Items     item.Repository
	Referrals referral.Repository
	Codes     CodeRegister
	Hasher    Hasher
	Notifier  notification.Notifier
	Logger    *slog.Logger
	Bonus     int64
}

// NewCoordinator builds an activation coordinator. The staging register is
// owned by the coordinator; the code register may be shared (e.g. Redis) and
// defaults to an in-process one when nil.
func NewCoordinator(d Deps) *Coordinator {
	if d.Codes == nil {
		d.Codes = NewMemoryCodeRegister()
	}
	if d.Hasher == nil {
		d.Hasher = NewBcryptHasher(bcrypt.DefaultCost)
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Bonus <= 0 {
		d.Bonus = defaultReferralBonus
	}
	return &Coordinator{
		accounts:  d.Accounts,
		wallets:   d.Wallets,
		items:     d.Items,
		referrals: d.Referrals,
		staging:   NewStagingRegister(),
		codes:     d.Codes,
		hasher:    d.Hasher,
		notifier:  d.Notifier,
		logger:    d.Logger,
		bonus:     d.Bonus,
		addresses: newKeyedMutex(),
	}
}

// RegisterInput captures a registration request.
type RegisterInput struct {
	Email          string
	Name           string
	Phone          string
	Password       string
	ItemNames      []string
	ReferredByCode string
}

// RegisterResult reports which registration branch was taken.
type RegisterResult struct {
	Email    string
	Existing bool
}

// Register stages a new candidate account and issues a verification code, or
// re-issues a code when the address already belongs to a durable account. The
// durable account's stored fields are never touched on the resend branch.
func (c *Coordinator) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return RegisterResult{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return RegisterResult{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return RegisterResult{}, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	unlock := c.addresses.lock(email)
	defer unlock()

	existing, err := c.accounts.FindByEmail(ctx, email)
	if err == nil {
		c.issueCode(ctx, existing.Email)
		return RegisterResult{Email: existing.Email, Existing: true}, nil
	}
	if !errors.Is(err, account.ErrNotFound) {
		return RegisterResult{}, fmt.Errorf("registration failed: %w", err)
	}

	if strings.TrimSpace(input.Password) == "" {
		return RegisterResult{}, fmt.Errorf("%w: password is required for a new account", ErrValidation)
	}

	hash, err := c.hasher.Hash(input.Password)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("registration failed: %w", err)
	}

	refCode, err := c.generateReferenceCode(ctx)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("registration failed: %w", err)
	}

	c.staging.Put(account.Account{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           name,
		Phone:          phone,
		PasswordHash:   hash,
		Status:         account.StatusPending,
		ReferenceCode:  refCode,
		ReferredByCode: strings.TrimSpace(input.ReferredByCode),
		ItemNames:      input.ItemNames,
		CreatedAt:      time.Now().UTC(),
	})
	c.issueCode(ctx, email)

	return RegisterResult{Email: email, Existing: false}, nil
}

// VerifyAndActivate consumes the outstanding code for the address and, on a
// match, promotes the candidate to ACTIVE, persists it and provisions its
// wallet and item record, then applies the referral bonus when applicable.
//
// Persistence steps are not compensated: a referral-ineligibility failure
// leaves the account active with wallet and item record already provisioned.
func (c *Coordinator) VerifyAndActivate(ctx context.Context, email, code string) (account.Account, error) {
	email = strings.TrimSpace(email)

	unlock := c.addresses.lock(email)
	defer unlock()

	ok, err := c.codes.Consume(ctx, email, code)
	if err != nil {
		return account.Account{}, err
	}
	if !ok {
		return account.Account{}, fmt.Errorf("%w for %s", ErrInvalidCode, email)
	}

	acct, staged := c.staging.Take(email)
	if !staged {
		acct, err = c.accounts.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				return account.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, email)
			}
			return account.Account{}, fmt.Errorf("load account: %w", err)
		}
	}

	acct.Status = account.StatusActive
	if err := c.accounts.Save(ctx, acct); err != nil {
		return account.Account{}, fmt.Errorf("persist account: %w", err)
	}

	if _, err := c.ensureWallet(ctx, acct.Phone); err != nil {
		return account.Account{}, err
	}

	rec, err := c.ensureItemRecord(ctx, acct)
	if err != nil {
		return account.Account{}, err
	}

	if acct.ReferredByCode != "" {
		if err := c.applyReferralBonus(ctx, acct, rec); err != nil {
			return account.Account{}, err
		}
	}

	count, err := c.referrals.CountByReferrerPhone(ctx, acct.Phone)
	if err != nil {
		return account.Account{}, fmt.Errorf("count referrals: %w", err)
	}
	acct.ReferralCount = count

	c.logger.Info("account activated", "email", acct.Email, "phone", acct.Phone)
	return acct, nil
}

// issueCode generates a fresh 6-digit code, replaces the outstanding code for
// the address and attempts delivery. Delivery is best-effort: failures are
// logged and the code stays valid for verification.
func (c *Coordinator) issueCode(ctx context.Context, email string) {
	code := fmt.Sprintf("%06d", rand.IntN(1_000_000))
	if err := c.codes.Put(ctx, email, code); err != nil {
		c.logger.Error("store verification code", "email", email, "error", err)
		return
	}

	if c.notifier == nil {
		return
	}
	err := c.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindVerificationCode,
		Destination: email,
		Subject:     "Your verification code",
		Body:        fmt.Sprintf("Your verification code is %s. Please verify within 5 minutes.", code),
	})
	if err != nil {
		c.logger.Warn("deliver verification code", "email", email, "error", err)
		return
	}
	c.logger.Info("verification code sent", "email", email)
}

// generateReferenceCode samples REF-prefixed 6-digit codes until one is unused
// by both durable accounts and staged candidates.
func (c *Coordinator) generateReferenceCode(ctx context.Context) (string, error) {
	for {
		code := fmt.Sprintf("%s%d", referencePrefix, 100_000+rand.IntN(900_000))
		if c.staging.HasReferenceCode(code) {
			continue
		}
		_, err := c.accounts.FindByReferenceCode(ctx, code)
		if errors.Is(err, account.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check reference code: %w", err)
		}
	}
}

func (c *Coordinator) ensureWallet(ctx context.Context, phone string) (wallet.Wallet, error) {
	w, err := c.wallets.FindByOwnerPhone(ctx, phone)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, wallet.ErrNotFound) {
		return wallet.Wallet{}, fmt.Errorf("load wallet: %w", err)
	}

	w = wallet.Wallet{
		ID:         uuid.NewString(),
		OwnerPhone: phone,
		Balance:    0,
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.wallets.Save(ctx, w); err != nil {
		return wallet.Wallet{}, fmt.Errorf("provision wallet: %w", err)
	}
	return w, nil
}

func (c *Coordinator) ensureItemRecord(ctx context.Context, acct account.Account) (item.Record, error) {
	rec, err := c.items.FindByOwnerPhone(ctx, acct.Phone)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, item.ErrNotFound) {
		return item.Record{}, fmt.Errorf("load item record: %w", err)
	}

	names := acct.ItemNames
	if names == nil {
		names = []string{}
	}
	rec = item.Record{
		ID:         uuid.NewString(),
		OwnerPhone: acct.Phone,
		Status:     item.StatusPending,
		ItemNames:  names,
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.items.Save(ctx, rec); err != nil {
		return item.Record{}, fmt.Errorf("provision item record: %w", err)
	}
	return rec, nil
}

// applyReferralBonus credits the referrer's wallet and appends a referral
// record. An unknown referring code is skipped silently; a known referrer with
// the referred account's item still PENDING fails the whole verification.
func (c *Coordinator) applyReferralBonus(ctx context.Context, acct account.Account, rec item.Record) error {
	referrer, err := c.accounts.FindByReferenceCode(ctx, acct.ReferredByCode)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			c.logger.Info("referring code does not resolve, skipping bonus",
				"email", acct.Email, "referred_by_code", acct.ReferredByCode)
			return nil
		}
		return fmt.Errorf("resolve referrer: %w", err)
	}

	if !strings.EqualFold(rec.Status, item.StatusSuccess) {
		return fmt.Errorf("%w: item record for %s is still %s", ErrReferralIneligible, acct.Phone, rec.Status)
	}

	refWallet, err := c.ensureWallet(ctx, referrer.Phone)
	if err != nil {
		return err
	}
	refWallet.Balance += c.bonus
	if err := c.wallets.Save(ctx, refWallet); err != nil {
		return fmt.Errorf("credit referrer wallet: %w", err)
	}

	if err := c.referrals.Save(ctx, referral.Referral{
		ID:            uuid.NewString(),
		ReferrerPhone: referrer.Phone,
		Bonus:         c.bonus,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("record referral: %w", err)
	}

	c.logger.Info("referral bonus credited",
		"referrer_phone", referrer.Phone, "referred_email", acct.Email, "bonus", c.bonus)
	return nil
}
