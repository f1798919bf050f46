// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/nftstaking/builtin/staking"
	"github.com/vechain/nftstaking/builtin/staking/pool"
	"github.com/vechain/nftstaking/thor"
)

// Amount is a 256 bit integer written in decimal, 0x prefixed hex, or as mantissa and
// decimal exponent like 1000e18.
type Amount big.Int

func NewAmount(v *big.Int) *Amount {
	return (*Amount)(new(big.Int).Set(v))
}

func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if mantissa, exp, ok := strings.Cut(s, "e"); ok && !strings.HasPrefix(s, "0x") {
		m, ok := math.ParseBig256(mantissa)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		e, err := strconv.ParseUint(exp, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		v := new(big.Int).Mul(m, new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(e), nil))
		if thor.CheckedU256(v) != nil {
			return nil, fmt.Errorf("amount %q exceeds 256 bits", s)
		}
		return v, nil
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseAmount(value.Value)
	if err != nil {
		return err
	}
	*a = Amount(*v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a *Amount) MarshalYAML() (any, error) {
	return a.Int().String(), nil
}

// Int returns the value, nil for a nil amount.
func (a *Amount) Int() *big.Int {
	if a == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(a))
}

// Config is the deployment description a fresh ledger is built from.
type Config struct {
	LaunchTime  uint64             `yaml:"launchTime"`
	Admins      []thor.Address     `yaml:"admins"`
	Signer      thor.Address       `yaml:"signer"`
	Params      ParamsConfig       `yaml:"params"`
	Tokens      []TokenConfig      `yaml:"tokens"`
	Collections []CollectionConfig `yaml:"collections"`
	Pools       []PoolConfig       `yaml:"pools"`
}

// ParamsConfig overrides the compiled-in engine parameters.
type ParamsConfig struct {
	MinStake     *Amount `yaml:"minStake,omitempty"`
	LockDuration *uint64 `yaml:"lockDuration,omitempty"`
	PenaltyRate  *Amount `yaml:"penaltyRate,omitempty"`
}

// Params merges the overrides into the defaults.
func (c *ParamsConfig) Params() *staking.Params {
	p := staking.DefaultParams()
	if c.MinStake != nil {
		p.MinStake = c.MinStake.Int()
	}
	if c.LockDuration != nil {
		p.LockDuration = *c.LockDuration
	}
	if c.PenaltyRate != nil {
		p.PenaltyRate = c.PenaltyRate.Int()
	}
	return p
}

type Balance struct {
	Owner thor.Address `yaml:"owner"`
	// Amount is minted to owner.
	Amount *Amount `yaml:"amount"`
	// ApproveStaking lets the engine pull the whole amount.
	ApproveStaking bool `yaml:"approveStaking,omitempty"`
}

type TokenConfig struct {
	Address  thor.Address `yaml:"address"`
	Name     string       `yaml:"name"`
	Symbol   string       `yaml:"symbol"`
	Balances []Balance    `yaml:"balances"`
}

type Cards struct {
	Owner          thor.Address `yaml:"owner"`
	IDs            []uint64     `yaml:"ids"`
	ApproveStaking bool         `yaml:"approveStaking,omitempty"`
}

type CollectionConfig struct {
	Address thor.Address `yaml:"address"`
	Name    string       `yaml:"name"`
	Symbol  string       `yaml:"symbol"`
	Cards   []Cards      `yaml:"cards"`
}

type TierConfig struct {
	Amount *Amount `yaml:"amount"`
	Rate   *Amount `yaml:"rate"`
}

type PoolConfig struct {
	Name           string       `yaml:"name"`
	Tiers          []TierConfig `yaml:"tiers"`
	Collection     thor.Address `yaml:"collection"`
	StakingToken   thor.Address `yaml:"stakingToken"`
	RewardToken    thor.Address `yaml:"rewardToken"`
	Size           *Amount      `yaml:"size"`
	MaxHigherPerTx uint64       `yaml:"maxHigherPerTx"`
	MaxLowerPerTx  uint64       `yaml:"maxLowerPerTx"`
	OpenTime       uint64       `yaml:"openTime"`
	CloseTime      uint64       `yaml:"closeTime"`
}

// Pool converts to the registry representation.
func (c *PoolConfig) Pool() *pool.Pool {
	tiers := make([]pool.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers = append(tiers, pool.Tier{Amount: t.Amount.Int(), Rate: t.Rate.Int()})
	}
	return &pool.Pool{
		Name:           c.Name,
		Tiers:          tiers,
		Collection:     c.Collection,
		StakingToken:   c.StakingToken,
		RewardToken:    c.RewardToken,
		Size:           c.Size.Int(),
		MaxHigherPerTx: c.MaxHigherPerTx,
		MaxLowerPerTx:  c.MaxLowerPerTx,
		OpenTime:       c.OpenTime,
		CloseTime:      c.CloseTime,
	}
}

// Validate checks what the engine can not check by itself.
func (c *Config) Validate() error {
	if len(c.Admins) == 0 {
		return errors.New("at least one admin is required")
	}
	for _, admin := range c.Admins {
		if admin.IsZero() {
			return errors.New("admin can not be zero address")
		}
	}
	for _, tok := range c.Tokens {
		for _, b := range tok.Balances {
			if b.Amount == nil {
				return fmt.Errorf("token %v: amount of %v must be set", tok.Address, b.Owner)
			}
		}
	}
	for i, p := range c.Pools {
		if p.Size == nil {
			return fmt.Errorf("pool %d: size must be set", i)
		}
		for _, t := range p.Tiers {
			if t.Amount == nil || t.Rate == nil {
				return fmt.Errorf("pool %d: tier amount and rate must be set", i)
			}
		}
	}
	return nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
