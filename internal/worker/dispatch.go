package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wnt/elwcore/internal/elw"
	"github.com/wnt/elwcore/internal/emission"
	"github.com/wnt/elwcore/internal/queue"
	"github.com/wnt/elwcore/internal/vault"
)

// Action kinds accepted by the dispatcher.
const (
	KindBuyPresale          = "buy_presale"
	KindClaimPresale        = "claim_presale"
	KindBurnUnsoldPresale   = "burn_unsold_presale"
	KindClaimTeamVesting    = "claim_team_vesting"
	KindClaimEmissionReward = "claim_emission_reward"
	KindDepositMining       = "deposit_mining"
	KindWithdrawMining      = "withdraw_mining"
	KindClaimMiningReward   = "claim_mining_reward"
	KindWithdrawPlatform    = "withdraw_platform_balance"
	KindBurnPlatform        = "burn_platform_balance"
	KindWithdrawAuthority   = "withdraw_authority"
	KindBuyPremium          = "buy_premium"
)

// Payloads carried inside action envelopes, one per kind that needs
// arguments beyond the caller.
type (
	BuyPresalePayload struct {
		Tier     uint8  `json:"tier"`
		Currency string `json:"currency"`
		Amount   uint64 `json:"amount"`
	}

	ClaimPresalePayload struct {
		Tier uint8 `json:"tier"`
	}

	ClaimEmissionRewardPayload struct {
		Recipient string           `json:"recipient"`
		Entries   []emission.Entry `json:"entries"`
	}

	MiningPayload struct {
		Currency    string `json:"currency"`
		BaseAmount  uint64 `json:"base_amount"`
		QuoteAmount uint64 `json:"quote_amount"`
	}

	ClaimMiningRewardPayload struct {
		Currency string `json:"currency"`
	}

	WithdrawPlatformPayload struct {
		To     string `json:"to"`
		Amount uint64 `json:"amount"`
	}

	BurnPlatformPayload struct {
		Amount uint64 `json:"amount"`
	}

	WithdrawAuthorityPayload struct {
		Vault    string `json:"vault"`
		Currency string `json:"currency"`
		Amount   uint64 `json:"amount"`
		To       string `json:"to"`
	}

	BuyPremiumPayload struct {
		Currency string `json:"currency"`
		Amount   uint64 `json:"amount"`
	}
)

// dispatch decodes the envelope and runs the matching service action.
func (w *Worker) dispatch(ctx context.Context, env *queue.Envelope) error {
	switch env.Kind {
	case KindBuyPresale:
		var p BuyPresalePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		currency, err := elw.ParseCurrency(p.Currency)
		if err != nil {
			return err
		}
		return w.service.BuyPresale(ctx, env.Caller, elw.PresaleTier(p.Tier), currency, p.Amount)

	case KindClaimPresale:
		var p ClaimPresalePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		return w.service.ClaimPresale(ctx, env.Caller, elw.PresaleTier(p.Tier))

	case KindBurnUnsoldPresale:
		return w.service.BurnUnsoldPresale(ctx, env.Caller)

	case KindClaimTeamVesting:
		return w.service.ClaimTeamVesting(ctx, env.Caller)

	case KindClaimEmissionReward:
		var p ClaimEmissionRewardPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		return w.service.ClaimEmissionReward(ctx, env.Caller, p.Recipient, p.Entries)

	case KindDepositMining, KindWithdrawMining:
		var p MiningPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		currency, err := elw.ParseCurrency(p.Currency)
		if err != nil {
			return err
		}
		if env.Kind == KindDepositMining {
			return w.service.DepositMining(ctx, env.Caller, currency, p.BaseAmount, p.QuoteAmount)
		}
		return w.service.WithdrawMining(ctx, env.Caller, currency, p.BaseAmount, p.QuoteAmount)

	case KindClaimMiningReward:
		var p ClaimMiningRewardPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		currency, err := elw.ParseCurrency(p.Currency)
		if err != nil {
			return err
		}
		return w.service.ClaimMiningReward(ctx, env.Caller, currency)

	case KindWithdrawPlatform:
		var p WithdrawPlatformPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		return w.service.WithdrawPlatformBalance(ctx, env.Caller, p.To, p.Amount)

	case KindBurnPlatform:
		var p BurnPlatformPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		return w.service.BurnPlatformBalance(ctx, env.Caller, p.Amount)

	case KindWithdrawAuthority:
		var p WithdrawAuthorityPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		currency, err := elw.ParseCurrency(p.Currency)
		if err != nil {
			return err
		}
		return w.service.WithdrawAuthority(ctx, env.Caller, vault.Name(p.Vault), currency, p.Amount, p.To)

	case KindBuyPremium:
		var p BuyPremiumPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
		}
		currency, err := elw.ParseCurrency(p.Currency)
		if err != nil {
			return err
		}
		return w.service.BuyPremium(ctx, env.Caller, currency, p.Amount)
	}

	return fmt.Errorf("unknown action kind %q", env.Kind)
}
