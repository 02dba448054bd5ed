package avvm

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-genesis/generator/keygen"
	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

// FakeOptions configures synthetic vouchers.
type FakeOptions struct {
	Count       uint32
	SeedPattern string
	Stake       coin.Coin
}

// Targets lists the seed files to write, indices 1..Count.
func (o FakeOptions) Targets() []keygen.Target {
	return keygen.Targets(o.SeedPattern, 1, int(o.Count), 0)
}

// Validate reports every problem with the options at once.
func (o FakeOptions) Validate() error {
	var result *multierror.Error
	if o.Count == 0 {
		result = multierror.Append(result, errors.New("fake voucher count is zero"))
	}
	if o.SeedPattern == "" {
		result = multierror.Append(result, errors.New("fake voucher seed pattern is empty"))
	}
	if o.Stake > coin.MaxCoin {
		result = multierror.Append(result, fmt.Errorf("fake voucher stake %d exceeds %d", o.Stake, coin.MaxCoin))
	}
	if result == nil {
		if err := keygen.ValidateTargets(o.Targets()); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// FakeVoucher is one generated seed file.
type FakeVoucher struct {
	Index   int
	Path    string
	Key     ed25519.PublicKey
	Address address.Address
}

// FakeResult is the fragment and the written seeds.
type FakeResult struct {
	Fragment genesis.Fragment
	Total    coin.Coin
	Vouchers []FakeVoucher
}

// GenerateFake writes Count voucher seeds and assigns each redeem address the
// same stake. No certificates are attached.
func (b *Builder) GenerateFake(ctx context.Context, opts FakeOptions) (*FakeResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	targets := opts.Targets()
	vouchers := make([]FakeVoucher, len(targets))
	err := keygen.Run(ctx, b.Workers, len(targets), func(_ context.Context, i int) error {
		t := targets[i]
		pub, err := b.Keys.GenerateFakeAvvm(t.Path, t.Index)
		if err != nil {
			return err
		}
		vouchers[i] = FakeVoucher{Index: t.Index, Path: t.Path, Key: pub, Address: address.FromRedeemKey(pub)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &FakeResult{Vouchers: vouchers}
	stakes := make(genesis.ExplicitStakes, len(vouchers))
	res.Fragment.Addresses = make([]address.Address, len(vouchers))
	for i, v := range vouchers {
		if _, dup := stakes[v.Address]; dup {
			return nil, &genesis.DuplicateAddressError{Address: v.Address}
		}
		res.Fragment.Addresses[i] = v.Address
		stakes[v.Address] = opts.Stake
	}
	res.Fragment.Distribution = stakes
	if res.Total, err = stakes.Total(); err != nil {
		return nil, err
	}

	b.log().WithFields(logrus.Fields{
		"count": opts.Count,
		"stake": opts.Stake,
		"total": res.Total,
	}).Info("Fake vouchers generated")
	return res, nil
}
