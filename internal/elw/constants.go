package elw

// Token metadata
const (
	Symbol   = "ELW"
	Name     = "Elowen"
	Decimals = 9
)

// Supply is the fixed total supply in base units (9 decimals).
const Supply uint64 = 1_000_000_000 * 1_000_000_000

// Genesis allocation per vault, in basis points of Supply.
const (
	EdaPercentage       uint16 = 1000
	TeamPercentage      uint16 = 1000
	RewardPercentage    uint16 = 5000
	PresalePercentage   uint16 = 1000
	LiquidityPercentage uint16 = 2000
)

// Emission reward schedule. The monthly base is halved once for every
// HalvingIntervalMonths elapsed since the presale window ended.
const (
	TotalReward           uint64 = 500_000_000 * 1_000_000_000
	BaseMonthlyReward     uint64 = 62_500_000 * 1_000_000_000
	HalvingIntervalMonths        = 4
	// EmissionMonthSeconds is the fixed month length used for the halving
	// index, so the schedule does not depend on calendar month lengths.
	EmissionMonthSeconds int64 = 30 * 86400
)

// Liquidity mining yearly reward caps, in basis points per year. The
// effective cap is the lower of the two.
const (
	MiningYearlyRewardPercentage    uint16 = 1000 // of the platform vault balance
	MiningYearlyRewardMaxPercentage uint16 = 3000 // of the pool's deposited ELW principal
)

// EdaCarvePercentage of a presale payment is routed to the EDA vault; the
// remainder goes to the liquidity vault.
const EdaCarvePercentage uint16 = 1000

// Default presale terms. Prices are USD per whole token scaled to 9
// decimals; contribution bounds are in ELW base units. All of them can be
// overridden through configuration.
const (
	DefaultPriceThreeMonths       uint64 = 12_000_000 // $0.012
	DefaultPriceSixMonths         uint64 = 10_000_000 // $0.010
	DefaultPresaleMinContribution uint64 = 1_000 * 1_000_000_000
	DefaultPresaleMaxContribution uint64 = 2_000_000 * 1_000_000_000
)

// PresaleAllocation is the portion of Supply reserved for the presale.
func PresaleAllocation() uint64 {
	return CalculateByPercentage(Supply, PresalePercentage)
}

// PremiumBurnPercentage of a premium purchase paid in ELW is burned.
const PremiumBurnPercentage uint16 = 2000
