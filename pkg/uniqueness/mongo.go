package uniqueness

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	ConnectionURL   string        `env:"MONGODB_URL" envDefault:"mongodb://localhost:27017"` // ConnectionURL is the URL of the server.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"formguard"`            // Database holds the collection.
	Collection      string        `env:"MONGODB_COLLECTION" envDefault:"taken_values"`       // Collection stores one document per taken value.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`           // ConnectTimeout is the timeout of one connection attempt.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`             // MaxPoolSize is the maximum number of pooled connections.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`               // MinPoolSize is the minimum number of pooled connections.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`       // MaxConnIdleTime is how long a pooled connection may stay idle.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`              // RetryAttempts is the number of connection attempts.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`             // RetryInterval is the pause between connection attempts.
}

// ConnectMongo connects to MongoDB, retrying until the server answers a ping.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	for range max(cfg.RetryAttempts, 1) {
		client, err := mongo.Connect(opts)
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrBackendUnavailable, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrBackendUnavailable
}

// EnsureMongoIndex creates the unique (namespace, value) index Reserve
// relies on.
func EnsureMongoIndex(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "value", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("namespace_value_unique"),
	})
	return err
}

// mongoCollection is the subset of mongo.Collection the backend uses.
type mongoCollection interface {
	CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

type takenDocument struct {
	Namespace string    `bson:"namespace"`
	Value     string    `bson:"value"`
	CreatedAt time.Time `bson:"created_at"`
}

// Mongo keeps one document per taken value.
type Mongo struct {
	coll   mongoCollection
	client *mongo.Client
}

// NewMongo creates a backend on coll. client, when non-nil, serves
// Healthcheck and is disconnected by Close.
func NewMongo(coll mongoCollection, client *mongo.Client) *Mongo {
	return &Mongo{coll: coll, client: client}
}

func (m *Mongo) Taken(ctx context.Context, namespace, value string) (bool, error) {
	n, err := m.coll.CountDocuments(ctx,
		bson.D{{Key: "namespace", Value: namespace}, {Key: "value", Value: value}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (m *Mongo) Reserve(ctx context.Context, namespace, value string) error {
	_, err := m.coll.InsertOne(ctx, takenDocument{
		Namespace: namespace,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrTaken
	}
	return err
}

func (m *Mongo) Healthcheck(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	if err := m.client.Ping(ctx, nil); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
