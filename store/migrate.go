package store

import (
	"slices"
	"strconv"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/cashtimer/internal/models"
)

const schemaVersion = 1

// migrate creates the buckets used by the client and records the schema
// version so that future layouts can be upgraded in place.
func (c *Client) migrate(tx *bolt.Tx) error {
	for _, name := range []string{
		sessionBucket,
		pauseBucket,
		userBucket,
		metaBucket,
	} {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
	}

	meta := tx.Bucket([]byte(metaBucket))

	v := meta.Get([]byte(keySchemaVersion))
	if v != nil {
		current, err := strconv.Atoi(string(v))
		if err == nil && current >= schemaVersion {
			return nil
		}
	}

	return meta.Put(
		[]byte(keySchemaVersion),
		[]byte(strconv.Itoa(schemaVersion)),
	)
}

func sortByStart(sessions []*models.Session) {
	slices.SortStableFunc(sessions, func(a, b *models.Session) int {
		return a.StartTime.Compare(b.StartTime)
	})
}
