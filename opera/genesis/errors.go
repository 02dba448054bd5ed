package genesis

import (
	"errors"
	"fmt"

	"github.com/rony4d/go-opera-genesis/inter/address"
)

// Every error below is fatal to a genesis build. Nothing retries.
var (
	ErrDuplicateAddress        = errors.New("duplicate address")
	ErrStakeOverflow           = errors.New("total stake exceeds maximum coin")
	ErrNoStakeSourceConfigured = errors.New("no stake source configured")
	ErrSerializationMismatch   = errors.New("genesis serialization round trip mismatch")
)

// DuplicateAddressError names the address found in more than one place.
type DuplicateAddressError struct {
	Address address.Address
}

func (e *DuplicateAddressError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDuplicateAddress, e.Address)
}

// Is makes errors.Is(err, ErrDuplicateAddress) hold.
func (e *DuplicateAddressError) Is(target error) bool {
	return target == ErrDuplicateAddress
}

// ParseError reports malformed input documents such as a voucher dump.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a keyfile or artifact that could not be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
