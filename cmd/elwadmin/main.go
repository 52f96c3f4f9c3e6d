package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/wnt/elwcore/internal/audit"
	"github.com/wnt/elwcore/internal/config"
	"github.com/wnt/elwcore/internal/database"
	"github.com/wnt/elwcore/internal/emission"
	"github.com/wnt/elwcore/internal/logger"
	"github.com/wnt/elwcore/internal/models"
	"github.com/wnt/elwcore/internal/queue"
	"github.com/wnt/elwcore/internal/vault"
	"github.com/wnt/elwcore/internal/worker"
)

func usage() {
	fmt.Println("Usage: elwadmin <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  submit    queue an action for the dispatcher")
	fmt.Println("  sweep     run one reconciliation sweep and print findings")
	fmt.Println("  balances  print every stored balance")
	fmt.Println("  vaults    print the derived vault addresses")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	switch os.Args[1] {
	case "submit":
		runSubmit(cfg, os.Args[2:])
	case "sweep":
		runSweep(cfg)
	case "balances":
		runBalances(cfg)
	case "vaults":
		runVaults()
	default:
		usage()
	}
}

func runSubmit(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	kind := fs.String("kind", "", "Action kind (e.g. buy_presale)")
	caller := fs.String("caller", "", "Calling address")
	tier := fs.Uint("tier", 1, "Presale tier (1 = 3 months, 2 = 6 months)")
	currency := fs.String("currency", "usdc", "Settlement currency")
	amount := fs.Uint64("amount", 0, "Amount in base units")
	base := fs.Uint64("base", 0, "ELW principal in base units")
	quote := fs.Uint64("quote", 0, "Quote principal in base units")
	to := fs.String("to", "", "Recipient address")
	vaultName := fs.String("vault", "", "Vault name for authority withdrawals")
	recipient := fs.String("recipient", "", "Emission reward recipient")
	entriesJSON := fs.String("entries", "", "Emission entries as JSON")
	fs.Parse(args)

	if *kind == "" || *caller == "" {
		log.Fatal("submit requires -kind and -caller")
	}

	payload, err := buildPayload(*kind, *tier, *currency, *amount, *base, *quote, *to, *vaultName, *recipient, *entriesJSON)
	if err != nil {
		log.Fatalf("Failed to build payload: %v", err)
	}

	env, err := queue.NewEnvelope(*kind, *caller, payload)
	if err != nil {
		log.Fatalf("Failed to build envelope: %v", err)
	}

	logg := logger.New(cfg.LogLevel)
	client, err := queue.NewClient(cfg.RedisURL, logg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer client.Close()

	if err := client.Push(context.Background(), env); err != nil {
		log.Fatalf("Failed to queue action: %v", err)
	}
	fmt.Printf("Queued %s as %s\n", env.Kind, env.ID)
}

func buildPayload(kind string, tier uint, currency string, amount, base, quote uint64, to, vaultName, recipient, entriesJSON string) (interface{}, error) {
	switch kind {
	case worker.KindBuyPresale:
		return worker.BuyPresalePayload{Tier: uint8(tier), Currency: currency, Amount: amount}, nil
	case worker.KindClaimPresale:
		return worker.ClaimPresalePayload{Tier: uint8(tier)}, nil
	case worker.KindBurnUnsoldPresale, worker.KindClaimTeamVesting:
		return struct{}{}, nil
	case worker.KindClaimEmissionReward:
		var entries []emission.Entry
		if err := json.Unmarshal([]byte(entriesJSON), &entries); err != nil {
			return nil, fmt.Errorf("invalid -entries: %w", err)
		}
		return worker.ClaimEmissionRewardPayload{Recipient: recipient, Entries: entries}, nil
	case worker.KindDepositMining, worker.KindWithdrawMining:
		return worker.MiningPayload{Currency: currency, BaseAmount: base, QuoteAmount: quote}, nil
	case worker.KindClaimMiningReward:
		return worker.ClaimMiningRewardPayload{Currency: currency}, nil
	case worker.KindWithdrawPlatform:
		return worker.WithdrawPlatformPayload{To: to, Amount: amount}, nil
	case worker.KindBurnPlatform:
		return worker.BurnPlatformPayload{Amount: amount}, nil
	case worker.KindWithdrawAuthority:
		return worker.WithdrawAuthorityPayload{Vault: vaultName, Currency: currency, Amount: amount, To: to}, nil
	case worker.KindBuyPremium:
		return worker.BuyPremiumPayload{Currency: currency, Amount: amount}, nil
	}
	return nil, fmt.Errorf("unknown action kind %q", kind)
}

func runSweep(cfg config.Config) {
	logg := logger.New(cfg.LogLevel)
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	auditor, err := audit.New(db, logg)
	if err != nil {
		log.Fatalf("Failed to create auditor: %v", err)
	}

	findings, err := auditor.RunOnce(context.Background())
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	if len(findings) == 0 {
		fmt.Println("No invariant violations found")
		return
	}
	for _, finding := range findings {
		fmt.Println(finding)
	}
	os.Exit(1)
}

func runBalances(cfg config.Config) {
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var balances []models.VaultBalance
	if err := db.Order("address, currency").Find(&balances).Error; err != nil {
		log.Fatalf("Failed to fetch balances: %v", err)
	}

	for _, balance := range balances {
		fmt.Printf("%-44s  %-5s  %d\n", balance.Address, balance.Currency, balance.Amount)
	}
}

func runVaults() {
	for _, name := range vault.Names {
		fmt.Printf("%-10s  %s\n", name, vault.MustAddress(name))
	}
}
