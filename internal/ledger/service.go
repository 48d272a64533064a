// Package ledger records labelled SHA-256 digests and verifies data against them.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"sha2-go/internal/model"
	"sha2-go/internal/sha2"
)

// DefaultChunkSize is the read size used when Options.ChunkSize is not positive.
const DefaultChunkSize = 32 * 1024

var (
	// ErrEmptyLabel is returned when a record is attempted without a label.
	ErrEmptyLabel = errors.New("label must not be empty")

	// ErrLabelNotFound is returned when verifying against an unknown label.
	ErrLabelNotFound = errors.New("label not found in ledger")
)

// Options controls how the service hashes input.
type Options struct {
	// Tag selects tagged hashing for new entries. Empty means plain SHA-256.
	Tag string

	// ChunkSize is the number of bytes read per Update call.
	ChunkSize int
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

// Service is the orchestration layer between the CLI and the ledger database.
type Service struct {
	database Database
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	opts     Options
}

// NewService creates a new Service with the provided dependencies.
func NewService(database Database, logger Logger, clock Clock, idgen IDGenerator, opts Options) *Service {
	return &Service{
		database: database,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		opts:     opts,
	}
}

// VerifyResult describes the outcome of comparing data against a recorded entry.
type VerifyResult struct {
	Entry    *model.Entry
	Computed sha2.Digest
	Match    bool
}

// Hash reads r to EOF and returns its digest under the configured tag along
// with the number of bytes read.
func (s *Service) Hash(r io.Reader) (sha2.Digest, int64, error) {
	return s.hash(s.opts.Tag, r)
}

func (s *Service) hash(tag string, r io.Reader) (sha2.Digest, int64, error) {
	var ctx *sha2.Context
	if tag != "" {
		ctx = sha2.NewTagged(tag)
	} else {
		ctx = sha2.New()
	}

	buf := make([]byte, s.opts.chunkSize())
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if uerr := ctx.Update(buf[:n]); uerr != nil {
				return sha2.Digest{}, total, fmt.Errorf("hashing input: %w", uerr)
			}
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sha2.Digest{}, total, fmt.Errorf("reading input: %w", err)
		}
	}

	d, err := ctx.Done()
	if err != nil {
		return sha2.Digest{}, total, fmt.Errorf("finalizing digest: %w", err)
	}
	return d, total, nil
}

// Record hashes r and stores the digest under label.
func (s *Service) Record(label string, r io.Reader) (*model.Entry, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}

	d, size, err := s.hash(s.opts.Tag, r)
	if err != nil {
		return nil, err
	}

	entry := &model.Entry{
		ID:        s.idgen.New(),
		Label:     label,
		Digest:    d.String(),
		Tag:       s.opts.Tag,
		Size:      size,
		CreatedAt: s.clock.Now(),
	}
	if err := s.database.CreateEntry(entry); err != nil {
		return nil, fmt.Errorf("storing entry: %w", err)
	}

	s.logger.Info("digest recorded", "label", label, "digest", entry.Digest, "size", size)
	return entry, nil
}

// Verify hashes r with the tag of the latest entry for label and compares
// the result with the recorded digest.
func (s *Service) Verify(label string, r io.Reader) (*VerifyResult, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}

	entry, err := s.database.FindLatestEntryByLabel(label)
	if err != nil {
		return nil, fmt.Errorf("finding entry: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrLabelNotFound, label)
	}

	recorded, err := sha2.ParseDigest(entry.Digest)
	if err != nil {
		return nil, fmt.Errorf("entry %s holds a malformed digest: %w", entry.ID, err)
	}

	computed, _, err := s.hash(entry.Tag, r)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{
		Entry:    entry,
		Computed: computed,
		Match:    computed == recorded,
	}
	if result.Match {
		s.logger.Info("digest verified", "label", label, "digest", entry.Digest)
	} else {
		s.logger.Warn("digest mismatch", "label", label, "recorded", entry.Digest, "computed", computed.String())
	}
	return result, nil
}

// Lookup returns every entry recorded with the given digest. The digest may
// be given in either case.
func (s *Service) Lookup(digest string) ([]*model.Entry, error) {
	d, err := sha2.ParseDigest(strings.TrimSpace(digest))
	if err != nil {
		return nil, err
	}
	entries, err := s.database.FindEntriesByDigest(d.String())
	if err != nil {
		return nil, fmt.Errorf("looking up digest: %w", err)
	}
	return entries, nil
}

// List returns entries for label, or all entries when label is empty.
func (s *Service) List(label string) ([]*model.Entry, error) {
	entries, err := s.database.ListEntries(strings.TrimSpace(label))
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}
