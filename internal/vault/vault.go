package vault

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ProgramID anchors vault address derivation. Vaults are owned by the
// program and addressable only through the deterministic derivation below;
// no entity owns more than one name.
var ProgramID = solana.MustPublicKeyFromBase58("3R63fNvrbn2mb2Em28i4UTPEJN83EAVQDmFuNzrkXVKw")

// Name identifies one of the platform's named vaults.
type Name string

const (
	Eda       Name = "eda"
	Team      Name = "team"
	Reward    Name = "reward"
	Presale   Name = "presale"
	Treasury  Name = "treasury"
	Liquidity Name = "liquidity"
	Platform  Name = "platform"
)

// Names lists every vault in genesis-allocation order.
var Names = []Name{Eda, Team, Reward, Presale, Treasury, Liquidity, Platform}

// Valid reports whether the name is one of the known vaults.
func (n Name) Valid() bool {
	for _, name := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Address derives the program address for the vault name.
func Address(name Name) (solana.PublicKey, error) {
	if !name.Valid() {
		return solana.PublicKey{}, fmt.Errorf("unknown vault name %q", name)
	}
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(name)}, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive vault address for %q: %w", name, err)
	}
	return addr, nil
}

// MustAddress is Address for the fixed vault set, as a base58 string.
// Derivation for a known name cannot fail at runtime.
func MustAddress(name Name) string {
	addr, err := Address(name)
	if err != nil {
		panic(err)
	}
	return addr.String()
}
