package genesis

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// DefaultDumpThreshold is the encoded size below which a failed round trip
// logs a full dump of the in-memory value.
const DefaultDumpThreshold = 10 * 1024

// Persister writes artifacts that survived an encode/decode round trip.
type Persister struct {
	Codec         Codec
	Log           logrus.FieldLogger
	DumpThreshold int
}

// NewPersister returns a Persister using the canonical codec.
func NewPersister(log logrus.FieldLogger) *Persister {
	return &Persister{
		Codec:         DefaultCodec,
		Log:           log,
		DumpThreshold: DefaultDumpThreshold,
	}
}

func (p *Persister) codec() Codec {
	if p.Codec == nil {
		return DefaultCodec
	}
	return p.Codec
}

func (p *Persister) log() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// Persist encodes g, decodes the bytes and compares the result with g. Only
// when both are equal is the artifact written to path; the returned hash
// identifies the written bytes. On mismatch nothing touches the filesystem
// and ErrSerializationMismatch is returned.
func (p *Persister) Persist(path string, g *Data) (hash.Hash, error) {
	raw, err := p.codec().Marshal(g)
	if err != nil {
		return hash.Hash{}, fmt.Errorf("encode genesis: %w", err)
	}
	decoded, err := p.codec().Unmarshal(raw)
	if err != nil || !decoded.Equal(g) {
		p.reportMismatch(g, raw, err)
		if err != nil {
			return hash.Hash{}, fmt.Errorf("%w: %v", ErrSerializationMismatch, err)
		}
		return hash.Hash{}, ErrSerializationMismatch
	}

	if err := writeFileAtomic(path, raw, 0644); err != nil {
		return hash.Hash{}, err
	}
	digest := hash.Of(raw)
	p.log().WithFields(logrus.Fields{
		"path": path,
		"size": humanize.Bytes(uint64(len(raw))),
		"hash": digest.Hex(),
	}).Info("Genesis artifact written")
	return digest, nil
}

func (p *Persister) reportMismatch(g *Data, raw []byte, decodeErr error) {
	log := p.log().WithField("size", humanize.Bytes(uint64(len(raw))))
	if decodeErr != nil {
		log = log.WithError(decodeErr)
	}
	log.Error("Genesis round trip check failed, artifact not written")

	threshold := p.DumpThreshold
	if threshold == 0 {
		threshold = DefaultDumpThreshold
	}
	if len(raw) < threshold {
		log.Errorf("Genesis value:\n%s", spew.Sdump(g))
	} else {
		log.Warnf("Genesis value not dumped, encoding is %d bytes", len(raw))
	}
}

// writeFileAtomic writes through a temporary file in the same directory so a
// failed write never leaves a truncated artifact behind.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: "create directory", Path: dir, Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// ReadArtifact loads, decodes and validates an artifact. The returned hash
// matches the one Persist reported.
func ReadArtifact(path string) (*Data, hash.Hash, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, hash.Hash{}, &IOError{Op: "read", Path: path, Err: err}
	}
	g, err := Decode(raw)
	if err != nil {
		return nil, hash.Hash{}, &ParseError{Source: path, Err: err}
	}
	if err := g.Validate(); err != nil {
		return nil, hash.Hash{}, err
	}
	return g, hash.Of(raw), nil
}
