package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/cashtimer/internal/models"
)

const (
	sessionBucket = "sessions"
	pauseBucket   = "pauses"
	userBucket    = "users"
	metaBucket    = "meta"

	keyCurrentUser   = "current_user"
	keyRates         = "rates"
	keySchemaVersion = "schema_version"
)

// Client is a BoltDB database client. Sessions are stored in the sessions
// bucket keyed by id. Pauses live in a nested bucket per session inside the
// pauses bucket.
type Client struct {
	*bolt.DB
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{db}

	err = c.Update(c.migrate)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// sessionRow strips the pauses from a session before it is written.
func sessionRow(sess *models.Session) ([]byte, error) {
	row := *sess
	row.Pauses = nil

	return json.Marshal(&row)
}

func putPauses(tx *bolt.Tx, sess *models.Session) error {
	pauses := tx.Bucket([]byte(pauseBucket))

	key := []byte(sess.ID)

	if pauses.Bucket(key) != nil {
		err := pauses.DeleteBucket(key)
		if err != nil {
			return err
		}
	}

	b, err := pauses.CreateBucket(key)
	if err != nil {
		return err
	}

	for i := range sess.Pauses {
		p := sess.Pauses[i]
		p.SessionID = sess.ID

		v, err := json.Marshal(&p)
		if err != nil {
			return err
		}

		err = b.Put([]byte(p.ID), v)
		if err != nil {
			return err
		}
	}

	return nil
}

func readSession(tx *bolt.Tx, v []byte) (*models.Session, error) {
	var sess models.Session

	err := json.Unmarshal(v, &sess)
	if err != nil {
		return nil, err
	}

	sess.Pauses = []models.Pause{}

	b := tx.Bucket([]byte(pauseBucket)).Bucket([]byte(sess.ID))
	if b != nil {
		err = b.ForEach(func(_, pv []byte) error {
			var p models.Pause

			err := json.Unmarshal(pv, &p)
			if err != nil {
				return err
			}

			sess.Pauses = append(sess.Pauses, p)

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sess.SortPauses()

	return &sess, nil
}

func (c *Client) CreateSession(ctx context.Context, sess *models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := sessionRow(sess)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(sessionBucket)).Put([]byte(sess.ID), value)
		if err != nil {
			return err
		}

		return putPauses(tx, sess)
	})
}

func (c *Client) UpdateSession(ctx context.Context, sess *models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := sessionRow(sess)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		if b.Get([]byte(sess.ID)) == nil {
			return ErrNotFound
		}

		err := b.Put([]byte(sess.ID), value)
		if err != nil {
			return err
		}

		return putPauses(tx, sess)
	})
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		key := []byte(id)

		b := tx.Bucket([]byte(sessionBucket))
		if b.Get(key) == nil {
			return ErrNotFound
		}

		pauses := tx.Bucket([]byte(pauseBucket))
		if pauses.Bucket(key) != nil {
			err := pauses.DeleteBucket(key)
			if err != nil {
				return err
			}
		}

		return b.Delete(key)
	})
}

func (c *Client) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sess *models.Session

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(sessionBucket)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}

		var err error

		sess, err = readSession(tx, v)

		return err
	})

	return sess, err
}

func (c *Client) ListSessions(
	ctx context.Context,
	ownerID string,
) ([]*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sessions []*models.Session

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).ForEach(func(_, v []byte) error {
			sess, err := readSession(tx, v)
			if err != nil {
				return err
			}

			if sess.OwnerID == ownerID {
				sessions = append(sessions, sess)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortByStart(sessions)

	return sessions, nil
}

func (c *Client) SaveRates(ctx context.Context, table *models.RateTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(table)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(metaBucket)).Put([]byte(keyRates), value)
	})
}

func (c *Client) LoadRates(ctx context.Context) (*models.RateTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var table models.RateTable

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(metaBucket)).Get([]byte(keyRates))
		if v == nil {
			return ErrNotFound
		}

		return json.Unmarshal(v, &table)
	})
	if err != nil {
		return nil, err
	}

	return &table, nil
}

func (c *Client) SaveUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(userBucket)).Put([]byte(user.Email), value)
	})
}

func (c *Client) FindUser(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user models.User

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(userBucket)).Get([]byte(email))
		if v == nil {
			return ErrNotFound
		}

		return json.Unmarshal(v, &user)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) SetCurrentUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(metaBucket))

		if id == "" {
			return b.Delete([]byte(keyCurrentUser))
		}

		return b.Put([]byte(keyCurrentUser), []byte(id))
	})
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user *models.User

	err := c.View(func(tx *bolt.Tx) error {
		id := tx.Bucket([]byte(metaBucket)).Get([]byte(keyCurrentUser))
		if id == nil {
			return ErrNotFound
		}

		return tx.Bucket([]byte(userBucket)).ForEach(func(_, v []byte) error {
			var u models.User

			err := json.Unmarshal(v, &u)
			if err != nil {
				return err
			}

			if u.ID == string(id) {
				user = &u
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrNotFound
	}

	return user, nil
}
