package providers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/corebc/go-corebc/types"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// SubmissionRecord is the persisted state of one in-flight submission: enough to resume watching
// (or re-escalating) it after a process restart.
type SubmissionRecord struct {
	// ID is the submission's unique identifier, stable across broadcast attempts.
	ID string `json:"id"`

	// Sender is the submitting account.
	Sender types.Address `json:"sender"`

	// Nonce is the nonce shared by every broadcast attempt.
	Nonce uint64 `json:"nonce"`

	// Hashes are the attempt hashes in broadcast order.
	Hashes []types.Hash `json:"hashes"`

	// LastPrice is the energy price of the most recent attempt, in ore.
	LastPrice string `json:"lastPrice"`

	// SubmittedAt is when the first attempt was broadcast.
	SubmittedAt time.Time `json:"submittedAt"`
}

// Journal persists submission records in a bbolt database, one bucket per network so records from
// different chains never mix. A nil *Journal is valid and persists nothing, which keeps the
// escalator's persistence optional.
type Journal struct {
	db *bolt.DB
}

// OpenJournal opens (creating if needed) a journal database at the given path.
func OpenJournal(path string) (*Journal, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open submission journal")
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

// bucketName returns the per-network bucket key.
func bucketName(networkID uint64) []byte {
	return []byte(fmt.Sprintf("submissions-%d", networkID))
}

// Put stores or replaces a record under its submission id.
func (j *Journal) Put(networkID uint64, record *SubmissionRecord) error {
	if j == nil {
		return nil
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to encode submission record")
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName(networkID))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(record.ID), encoded)
	})
}

// Delete removes a record once its submission reached a terminal state.
func (j *Journal) Delete(networkID uint64, id string) error {
	if j == nil {
		return nil
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName(networkID))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})
}

// Pending returns every stored record for the given network, in key order.
func (j *Journal) Pending(networkID uint64) ([]*SubmissionRecord, error) {
	if j == nil {
		return nil, nil
	}
	var records []*SubmissionRecord
	err := j.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName(networkID))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			var record SubmissionRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return errors.Wrapf(err, "corrupt submission record %q", k)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
