package marketplace

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

// Processor executes marketplace instructions. Each instruction runs inside
// exactly one datagateway transaction: either every account mutation commits,
// or none does. Signature verification of the declared signers is the
// runtime boundary's concern; the processor enforces roles, derivations and
// balances.
type Processor struct {
	marketplaceDg datagateway.MarketplaceDataGateway
}

func NewProcessor(marketplaceDg datagateway.MarketplaceDataGateway) *Processor {
	return &Processor{
		marketplaceDg: marketplaceDg,
	}
}

// withTx runs fn inside a single datagateway transaction, committing on
// success and rolling back on any error. No instruction ever spans more than
// one call to withTx.
func (p *Processor) withTx(ctx context.Context, fn func(qtx datagateway.MarketplaceDataGatewayWithTx) error) error {
	qtx, err := p.marketplaceDg.BeginMarketplaceTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = qtx.Rollback(ctx)
	}()

	if err := fn(qtx); err != nil {
		return err
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// getAccountOfKind loads an account and rejects it if its discriminant does
// not match the declared role.
func getAccountOfKind(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, addr common.Address, kind entity.AccountKind) (*entity.Account, error) {
	account, err := qtx.GetAccount(ctx, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get account %s", addr)
	}
	if account.Kind != kind {
		return nil, errors.Wrapf(errs.InvalidArgument, "account %s is %s, expected %s", addr, account.Kind, kind)
	}
	return account, nil
}

// credit adds lamports to an account, creating it as a system account when it
// does not exist yet. This mirrors how ordinary transfers bring wallet
// accounts into existence.
func credit(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, addr common.Address, amount uint64) error {
	account, err := qtx.GetAccount(ctx, addr)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.Wrap(qtx.CreateAccount(ctx, entity.Account{
				Address:  addr,
				Kind:     entity.AccountKindSystem,
				Lamports: amount,
			}), "failed to create credited account")
		}
		return errors.Wrapf(err, "failed to get account %s", addr)
	}
	newBalance := account.Lamports + amount
	if newBalance < account.Lamports {
		return errors.Wrapf(errs.OverflowUint64, "crediting %d to %s", amount, addr)
	}
	return errors.Wrap(qtx.SetBalance(ctx, addr, newBalance), "failed to credit account")
}

// debit removes lamports from an account. Fails with errs.InsufficientFunds
// when the balance cannot cover the amount.
func debit(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, addr common.Address, amount uint64) error {
	account, err := qtx.GetAccount(ctx, addr)
	if err != nil {
		return errors.Wrapf(err, "failed to get account %s", addr)
	}
	if account.Lamports < amount {
		return errors.Wrapf(errs.InsufficientFunds, "account %s holds %d lamports, need %d", addr, account.Lamports, amount)
	}
	return errors.Wrap(qtx.SetBalance(ctx, addr, account.Lamports-amount), "failed to debit account")
}

type TransferParams struct {
	From   common.Address // signer
	To     common.Address
	Amount uint64
}

// Transfer moves native value between accounts. It is the ordinary-transfer
// path clients use to fund wallets and top up the treasury.
func (p *Processor) Transfer(ctx context.Context, params TransferParams) error {
	if params.Amount == 0 {
		return errors.Wrap(errs.InvalidArgument, "transfer amount must be positive")
	}
	if params.From.IsZero() || params.To.IsZero() {
		return errors.Wrap(errs.InvalidArgument, "transfer endpoints must not be zero addresses")
	}
	return p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		if err := debit(ctx, qtx, params.From, params.Amount); err != nil {
			return errors.WithStack(err)
		}
		if err := credit(ctx, qtx, params.To, params.Amount); err != nil {
			return errors.WithStack(err)
		}
		return nil
	})
}

type AirdropParams struct {
	To     common.Address
	Amount uint64
}

// Airdrop deposits native value from outside the ledger, the way a faucet or
// an exchange withdrawal does. It creates the target account when missing.
func (p *Processor) Airdrop(ctx context.Context, params AirdropParams) error {
	if params.Amount == 0 {
		return errors.Wrap(errs.InvalidArgument, "airdrop amount must be positive")
	}
	if params.To.IsZero() {
		return errors.Wrap(errs.InvalidArgument, "airdrop target must not be the zero address")
	}
	return p.withTx(ctx, func(qtx datagateway.MarketplaceDataGatewayWithTx) error {
		return errors.WithStack(credit(ctx, qtx, params.To, params.Amount))
	})
}
