// Package testnet builds the richmen/poor stake distribution of a test
// network: it writes one keyfile per stakeholder and splits a fixed total
// between the two classes.
package testnet

import (
	"context"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-genesis/generator/keygen"
	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/inter/stakepk"
	"github.com/rony4d/go-opera-genesis/inter/vss"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

// Options configures a testnet distribution.
type Options struct {
	Richmen         uint32
	Poor            uint32
	Pattern         string
	TotalStake      coin.Coin
	RichmenShareBps uint32
	Remainder       genesis.RemainderPolicy
	CertExpiry      idx.Epoch
}

// Stakeholders is R+P.
func (o Options) Stakeholders() int {
	return int(o.Richmen) + int(o.Poor)
}

// Distribution returns the split parameters.
func (o Options) Distribution() genesis.RichPoor {
	return genesis.RichPoor{
		Richmen:         o.Richmen,
		Poor:            o.Poor,
		TotalStake:      o.TotalStake,
		RichmenShareBps: o.RichmenShareBps,
		Remainder:       o.Remainder,
	}
}

// Targets lists the keyfiles to write: richmen at indices 1..R with the
// primary suffix, poor at R+1..R+P.
func (o Options) Targets() []keygen.Target {
	return keygen.Targets(o.Pattern, 1, o.Stakeholders(), int(o.Richmen))
}

// Validate reports every problem with the options at once.
func (o Options) Validate() error {
	var result *multierror.Error
	if o.Stakeholders() == 0 {
		result = multierror.Append(result, fmt.Errorf("testnet needs at least one richman or poor stakeholder"))
	}
	if o.Pattern == "" {
		result = multierror.Append(result, fmt.Errorf("testnet keyfile pattern is empty"))
	}
	if o.RichmenShareBps > genesis.MaxShareBps {
		result = multierror.Append(result, fmt.Errorf("richmen share %d bps exceeds %d", o.RichmenShareBps, genesis.MaxShareBps))
	}
	if o.TotalStake > coin.MaxCoin {
		result = multierror.Append(result, fmt.Errorf("testnet total stake %d exceeds %d", o.TotalStake, coin.MaxCoin))
	}
	if !o.Remainder.Valid() {
		result = multierror.Append(result, fmt.Errorf("unknown remainder policy %d", o.Remainder))
	}
	if result == nil {
		if err := keygen.ValidateTargets(o.Targets()); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Stakeholder is one generated key.
type Stakeholder struct {
	Index   int
	Path    string
	Primary bool
	PubKey  stakepk.PubKey
	Address address.Address
}

// Result is the fragment together with what was written to disk.
type Result struct {
	Fragment     genesis.Fragment
	Stakeholders []Stakeholder
}

// Builder generates testnet fragments.
type Builder struct {
	Keys    *keygen.Generator
	Workers int
	Log     logrus.FieldLogger
}

type generated struct {
	holder Stakeholder
	cert   *vss.Certificate
}

// Build writes R+P keyfiles on the worker pool, then assigns stakes and
// certificates once every key exists. Only richmen get a VSS certificate,
// signed with their own key.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	targets := opts.Targets()
	slots := make([]generated, len(targets))
	err := keygen.Run(ctx, b.Workers, len(targets), func(_ context.Context, i int) error {
		t := targets[i]
		k, err := b.Keys.GenerateKey(t.Primary, t.Path, t.Index)
		if err != nil {
			return err
		}
		slots[i].holder = Stakeholder{
			Index:   t.Index,
			Path:    t.Path,
			Primary: t.Primary,
			PubKey:  k.PubKey(),
			Address: k.Address,
		}
		if t.Primary {
			cert, err := vss.New(k.Private, &k.Vss.PublicKey, opts.CertExpiry)
			if err != nil {
				return err
			}
			slots[i].cert = &cert
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Stakeholders: make([]Stakeholder, len(slots)),
		Fragment: genesis.Fragment{
			Addresses:       make([]address.Address, len(slots)),
			Distribution:    opts.Distribution(),
			VssCertificates: make(map[address.Address]vss.Certificate, opts.Richmen),
		},
	}
	for i, s := range slots {
		res.Stakeholders[i] = s.holder
		res.Fragment.Addresses[i] = s.holder.Address
		if s.cert != nil {
			res.Fragment.VssCertificates[s.holder.Address] = *s.cert
		}
	}
	if err := res.Fragment.Validate(); err != nil {
		return nil, err
	}

	if b.Log != nil {
		rich, poor := opts.Distribution().Pools()
		b.Log.WithFields(logrus.Fields{
			"richmen":  opts.Richmen,
			"poor":     opts.Poor,
			"richPool": rich,
			"poorPool": poor,
		}).Info("Testnet stakeholders generated")
	}
	return res, nil
}
