// Package generator runs a complete genesis build: it generates every stake
// source, merges the fragments and persists the checked artifact.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-genesis/generator/avvm"
	"github.com/rony4d/go-opera-genesis/generator/keygen"
	"github.com/rony4d/go-opera-genesis/generator/testnet"
	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

// DefaultPreview is how many addresses per source are logged.
const DefaultPreview = 10

// Options selects the stake sources of one build. A nil source is skipped.
type Options struct {
	Network  genesis.Network
	Testnet  *testnet.Options
	Avvm     *avvm.Options
	FakeAvvm *avvm.FakeOptions
	Output   string
	Workers  int
	// Seed makes every generated key reproducible. Nil draws keys from
	// crypto/rand.
	Seed    *int64
	Preview int
	// Passphrase encrypts every generated keyfile. Empty means
	// keygen.FakePassword, which only suits test networks.
	Passphrase string
	// StandardKDF spends the full keystore scrypt cost on every keyfile.
	StandardKDF bool
}

// Sources counts the configured stake sources.
func (o Options) Sources() int {
	n := 0
	if o.Testnet != nil {
		n++
	}
	if o.Avvm != nil {
		n++
	}
	if o.FakeAvvm != nil {
		n++
	}
	return n
}

// Validate checks every source and makes sure no two files of the run share
// a path, across sources and including the artifact itself. Files the voucher
// import reads are never overwritten.
func (o Options) Validate() error {
	if o.Sources() == 0 {
		return genesis.ErrNoStakeSourceConfigured
	}
	var result *multierror.Error
	if o.Output == "" {
		result = multierror.Append(result, errors.New("output path is empty"))
	}
	if len(o.Network.Name) > genesis.MaxNetworkNameLen {
		result = multierror.Append(result, errors.New("network name is too long"))
	}
	var targets []keygen.Target
	if o.Testnet != nil {
		if err := o.Testnet.Validate(); err != nil {
			result = multierror.Append(result, err)
		} else {
			targets = append(targets, o.Testnet.Targets()...)
		}
	}
	if o.Avvm != nil {
		if err := o.Avvm.Validate(); err != nil {
			result = multierror.Append(result, err)
		} else {
			targets = append(targets, o.Avvm.Inputs()...)
		}
	}
	if o.FakeAvvm != nil {
		if err := o.FakeAvvm.Validate(); err != nil {
			result = multierror.Append(result, err)
		} else {
			targets = append(targets, o.FakeAvvm.Targets()...)
		}
	}
	if result == nil {
		targets = append(targets, keygen.Target{Path: o.Output})
		if err := keygen.ValidateTargets(targets); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Report describes a finished build.
type Report struct {
	Genesis  *genesis.Data
	Hash     hash.Hash
	Path     string
	Total    coin.Coin
	Testnet  *testnet.Result
	Avvm     *avvm.Result
	FakeAvvm *avvm.FakeResult
}

// Run builds the sources in the fixed order testnet, vouchers, fake vouchers,
// merges them and writes the artifact. Any failure aborts the whole build.
func Run(ctx context.Context, opts Options, log logrus.FieldLogger) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Preview == 0 {
		opts.Preview = DefaultPreview
	}
	keys := keygen.New(keygen.NewSource(opts.Seed))
	if opts.Seed != nil {
		log.Warn("Deterministic key source in use, keys are reproducible from the seed")
	}
	if opts.Passphrase != "" {
		keys.Passphrase = opts.Passphrase
	} else {
		log.Warn("Keyfiles are encrypted with the fake password")
	}
	if opts.StandardKDF {
		keys.KDF = keygen.StandardKDF
	}

	report := &Report{Path: opts.Output}
	var fragments []genesis.Fragment

	if opts.Testnet != nil {
		b := &testnet.Builder{Keys: keys, Workers: opts.Workers, Log: log.WithField("source", "testnet")}
		res, err := b.Build(ctx, *opts.Testnet)
		if err != nil {
			return nil, err
		}
		report.Testnet = res
		logSource(log, "testnet", res.Fragment, opts.Preview)
		fragments = append(fragments, res.Fragment)
	}

	vouchers := &avvm.Builder{Keys: keys, Workers: opts.Workers, Log: log.WithField("source", "avvm")}
	if opts.Avvm != nil {
		res, err := vouchers.Import(ctx, *opts.Avvm)
		if err != nil {
			return nil, err
		}
		report.Avvm = res
		logSource(log, "avvm", res.Fragment, opts.Preview)
		fragments = append(fragments, res.Fragment)
	}
	if opts.FakeAvvm != nil {
		res, err := vouchers.GenerateFake(ctx, *opts.FakeAvvm)
		if err != nil {
			return nil, err
		}
		report.FakeAvvm = res
		logSource(log, "fakeavvm", res.Fragment, opts.Preview)
		fragments = append(fragments, res.Fragment)
	}

	g, err := genesis.Build(opts.Network, fragments...)
	if err != nil {
		return nil, err
	}
	report.Genesis = g
	if report.Total, err = g.TotalStake(); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"network":      g.Network.Name,
		"stakeholders": g.Stakeholders(),
		"certificates": len(g.VssCertificates),
		"total":        report.Total,
	}).Info("Genesis assembled")

	if report.Hash, err = genesis.NewPersister(log).Persist(opts.Output, g); err != nil {
		return nil, err
	}
	return report, nil
}

func logSource(log logrus.FieldLogger, source string, f genesis.Fragment, preview int) {
	total, err := f.TotalStake()
	if err != nil {
		// reported again by Build
		return
	}
	log.WithFields(logrus.Fields{
		"source":       source,
		"stakeholders": len(f.Addresses),
		"total":        total,
	}).Info("Stake source ready")
	log.WithField("source", source).Infof("First addresses: %s", FormatPreview(f.Addresses, preview))
}

// FormatPreview joins the first n addresses and notes how many were left out.
func FormatPreview(addrs []address.Address, n int) string {
	if n > len(addrs) {
		n = len(addrs)
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = addrs[i].String()
	}
	s := strings.Join(parts, ", ")
	if rest := len(addrs) - n; rest > 0 {
		s += fmt.Sprintf(", ... (%s more)", humanize.Comma(int64(rest)))
	}
	return s
}
