package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"golang.org/x/sync/singleflight"
)

// SetupFunc runs once against a freshly connected database, e.g. to create
// indexes.
type SetupFunc func(ctx context.Context, db *mongo.Database) error

// Mongo owns the MongoDB client. It connects on first use; concurrent first
// uses share one connection attempt and a failed attempt is retried by the
// next caller.
type Mongo struct {
	uri    string
	dbName string
	setup  []SetupFunc

	group  singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo returns an unconnected handle. The database name comes from the
// URI path when present, else defaultDB.
func NewMongo(uri, defaultDB string, setup ...SetupFunc) *Mongo {
	return &Mongo{uri: uri, dbName: databaseName(uri, defaultDB), setup: setup}
}

// NewMongoFromDatabase wraps a database that is already connected. Setup
// funcs are not run for it.
func NewMongoFromDatabase(db *mongo.Database) *Mongo {
	return &Mongo{dbName: db.Name(), client: db.Client(), db: db}
}

// Database returns the connected database, connecting if needed.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	if db := m.current(); db != nil {
		return db, nil
	}

	v, err, _ := m.group.Do("connect", func() (interface{}, error) {
		if db := m.current(); db != nil {
			return db, nil
		}
		return m.connect()
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Database), nil
}

// Collection returns a handle on the named collection.
func (m *Mongo) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := m.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (m *Mongo) current() *mongo.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// connect is detached from any request context so one caller cancelling
// does not fail the shared attempt.
func (m *Mongo) connect() (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(m.uri)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	log.Printf("Attempting to connect to MongoDB...")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(m.dbName)
	for _, fn := range m.setup {
		if err := fn(ctx, db); err != nil {
			client.Disconnect(context.Background())
			return nil, fmt.Errorf("prepare mongodb: %w", err)
		}
	}

	m.mu.Lock()
	m.client, m.db = client, db
	m.mu.Unlock()

	log.Println("✅ Connected to MongoDB")
	return db, nil
}

// Disconnect closes the client if one was established.
func (m *Mongo) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client, m.db = nil, nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// MaskURI hides the password component of a connection string for logging.
func MaskURI(uri string) string {
	cs, err := connstring.Parse(uri)
	if err != nil || cs.Password == "" {
		return uri
	}
	masked := uri
	if i := strings.Index(masked, ":"+cs.Password+"@"); i >= 0 {
		masked = masked[:i+1] + "***" + masked[i+1+len(cs.Password):]
	}
	return masked
}

func databaseName(uri, defaultDB string) string {
	cs, err := connstring.Parse(uri)
	if err == nil && cs.Database != "" {
		return cs.Database
	}
	return defaultDB
}

