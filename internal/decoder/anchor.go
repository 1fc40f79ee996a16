// Package decoder classifies raw program accounts into the known variant set
// by their 8-byte Anchor discriminator (sha256("account:<Name>")[:8]).
// Field-level layouts are not parsed here; the payload is carried opaquely.
package decoder

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/pratikbuilds/account-socket/internal/domain"
)

// ProgramID is the on-chain program whose accounts this decoder understands.
const ProgramID = "cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG"

type payload struct {
	Lamports int64  `json:"lamports"`
	Raw      string `json:"raw_base64"`
}

// AnchorDecoder maps account discriminators to typed variants.
type AnchorDecoder struct {
	variants map[[8]byte]func(json.RawMessage) domain.AccountData
}

func NewAnchorDecoder() *AnchorDecoder {
	d := &AnchorDecoder{variants: make(map[[8]byte]func(json.RawMessage) domain.AccountData)}
	d.register("Pool", func(f json.RawMessage) domain.AccountData { return domain.PoolAccount{Fields: f} })
	d.register("Position", func(f json.RawMessage) domain.AccountData { return domain.PositionAccount{Fields: f} })
	d.register("Config", func(f json.RawMessage) domain.AccountData { return domain.ConfigAccount{Fields: f} })
	d.register("ClaimFeeOperator", func(f json.RawMessage) domain.AccountData { return domain.ClaimFeeOperatorAccount{Fields: f} })
	d.register("TokenBadge", func(f json.RawMessage) domain.AccountData { return domain.TokenBadgeAccount{Fields: f} })
	d.register("Vesting", func(f json.RawMessage) domain.AccountData { return domain.VestingAccount{Fields: f} })
	return d
}

func (d *AnchorDecoder) register(name string, build func(json.RawMessage) domain.AccountData) {
	d.variants[discriminator(name)] = build
}

// Decode classifies a raw account by discriminator. Accounts shorter than the
// discriminator or with an unknown discriminator are rejected.
func (d *AnchorDecoder) Decode(pubkey, owner string, lamports int64, data []byte) (domain.AccountData, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("account %s data too short (%d bytes)", pubkey, len(data))
	}

	var disc [8]byte
	copy(disc[:], data[:8])
	build, ok := d.variants[disc]
	if !ok {
		return nil, fmt.Errorf("account %s has unknown discriminator %x", pubkey, disc)
	}

	fields, err := json.Marshal(payload{
		Lamports: lamports,
		Raw:      base64.StdEncoding.EncodeToString(data[8:]),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload for %s: %w", pubkey, err)
	}

	return build(fields), nil
}

func discriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var disc [8]byte
	copy(disc[:], sum[:8])
	return disc
}
