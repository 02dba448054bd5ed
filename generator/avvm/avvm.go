// Package avvm turns pre-launch vouchers into genesis stake. Import reads a
// real voucher dump; GenerateFake invents vouchers for test networks.
//
// Voucher holders receive redeem addresses, never ordinary key addresses, so
// the stake stays locked until the voucher key is presented.
package avvm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-genesis/generator/keygen"
	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/inter/vss"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

// DomainCerts derives the VSS keys of randomized voucher certificates.
const DomainCerts = "avvm-vss"

// Options configures an import.
type Options struct {
	Input         string
	Blacklist     string
	HolderKeyfile string
	// HolderPassphrase decrypts HolderKeyfile. Empty falls back to the
	// passphrase of the key generator.
	HolderPassphrase string
	RandCerts        bool
	CertExpiry       idx.Epoch
}

// Validate reports every problem with the options at once.
func (o Options) Validate() error {
	var result *multierror.Error
	if o.Input == "" {
		result = multierror.Append(result, errors.New("voucher dump path is empty"))
	}
	if o.RandCerts && o.HolderKeyfile == "" {
		result = multierror.Append(result, errors.New("randomized certificates need a holder keyfile"))
	}
	return result.ErrorOrNil()
}

// Inputs lists the files an import reads, so a run can keep generated files
// away from them.
func (o Options) Inputs() []keygen.Target {
	var out []keygen.Target
	for _, path := range []string{o.Input, o.Blacklist, o.HolderKeyfile} {
		if path != "" {
			out = append(out, keygen.Target{Path: path, Input: true})
		}
	}
	return out
}

// Result is a voucher fragment together with the figures an operator checks.
type Result struct {
	Fragment    genesis.Fragment
	Total       coin.Coin
	Imported    int
	Blacklisted int
}

// Builder produces voucher fragments.
type Builder struct {
	Keys    *keygen.Generator
	Workers int
	Log     logrus.FieldLogger
}

func (b *Builder) log() logrus.FieldLogger {
	if b.Log == nil {
		return logrus.StandardLogger()
	}
	return b.Log
}

// Import loads the files named by opts and imports them.
func (b *Builder) Import(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	vouchers, err := LoadVouchers(opts.Input)
	if err != nil {
		return nil, err
	}
	blacklist, err := LoadBlacklist(opts.Blacklist)
	if err != nil {
		return nil, err
	}
	var holder *keygen.Key
	if opts.HolderKeyfile != "" {
		passphrase := opts.HolderPassphrase
		if passphrase == "" {
			passphrase = b.Keys.Passphrase
		}
		if holder, err = keygen.ReadKeyfile(opts.HolderKeyfile, passphrase); err != nil {
			return nil, err
		}
		b.log().WithField("holder", holder.Address).Info("Voucher holder key loaded")
	}
	return b.ImportVouchers(ctx, vouchers, blacklist, holder, opts)
}

// ImportVouchers drops blacklisted holders, derives a redeem address for every
// remaining voucher and sums the stake. Blacklisted vouchers never reach the
// total or the logs. With opts.RandCerts every redeem address gets a fresh
// VSS certificate signed by holder.
func (b *Builder) ImportVouchers(ctx context.Context, vouchers []Voucher, blacklist Blacklist, holder *keygen.Key, opts Options) (*Result, error) {
	if opts.RandCerts && holder == nil {
		return nil, errors.New("randomized certificates need a holder key")
	}

	res := &Result{}
	kept := make([]Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		if blacklist.Contains(v) {
			res.Blacklisted++
			continue
		}
		kept = append(kept, v)
	}

	stakes := make(genesis.ExplicitStakes, len(kept))
	addrs := make([]address.Address, len(kept))
	amounts := make([]coin.Coin, len(kept))
	for i, v := range kept {
		a := address.FromRedeemKey(v.Key)
		if _, dup := stakes[a]; dup {
			return nil, &genesis.DuplicateAddressError{Address: a}
		}
		addrs[i] = a
		amounts[i] = v.Coin
		stakes[a] = v.Coin
	}
	total, err := coin.Sum(amounts...)
	if err != nil {
		return nil, fmt.Errorf("%w: voucher total: %v", genesis.ErrStakeOverflow, err)
	}

	res.Total = total
	res.Imported = len(kept)
	res.Fragment = genesis.Fragment{Addresses: addrs, Distribution: stakes}
	b.log().WithFields(logrus.Fields{
		"vouchers":    res.Imported,
		"blacklisted": res.Blacklisted,
		"total":       res.Total,
	}).Info("Vouchers imported")

	if opts.RandCerts {
		certs, err := b.randomCerts(ctx, holder, addrs, opts.CertExpiry)
		if err != nil {
			return nil, err
		}
		res.Fragment.VssCertificates = certs
	}
	return res, nil
}

func (b *Builder) randomCerts(ctx context.Context, holder *keygen.Key, addrs []address.Address, expiry idx.Epoch) (map[address.Address]vss.Certificate, error) {
	slots := make([]vss.Certificate, len(addrs))
	err := keygen.Run(ctx, b.Workers, len(addrs), func(_ context.Context, i int) error {
		vssKey, err := b.Keys.Source.SigningKey(DomainCerts, i+1)
		if err != nil {
			return err
		}
		slots[i], err = vss.New(holder.Private, &vssKey.PublicKey, expiry)
		return err
	})
	if err != nil {
		return nil, err
	}
	certs := make(map[address.Address]vss.Certificate, len(addrs))
	for i, a := range addrs {
		certs[a] = slots[i]
	}
	return certs, nil
}
