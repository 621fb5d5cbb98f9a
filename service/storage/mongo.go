package storage

import (
	"context"
	"time"

	"ThreadsApp/tools/errs"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds the notification store connection settings.
type MongoConfig struct {
	Uri         string
	Address     []string
	Database    string
	Username    string
	Password    string
	AuthSource  string
	MaxPoolSize int
	MaxRetry    int
}

var mongoDB *mongo.Database

func applyConfigToOptions(cfg *MongoConfig) (*options.ClientOptions, error) {
	var opts *options.ClientOptions

	switch {
	case cfg.Uri != "":
		opts = options.Client().ApplyURI(cfg.Uri)
	case len(cfg.Address) > 0:
		opts = options.Client().SetHosts(cfg.Address)
	default:
		return nil, errs.New("mongo uri or address is required")
	}

	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxPoolSize))
	}

	// credentials given in the config override any embedded in the URI
	if cfg.Username != "" {
		cred := options.Credential{
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthSource: cfg.AuthSource,
		}
		opts.SetAuth(cred)
	}

	return opts, nil
}

// InitMongo connects with bounded retry and keeps the database handle.
func InitMongo(ctx context.Context, cfg *MongoConfig) error {
	if cfg.Database == "" {
		return errs.New("mongo database is required")
	}
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = 1
	}
	opts, err := applyConfigToOptions(cfg)
	if err != nil {
		return err
	}

	var cli *mongo.Client
	for i := 0; i < cfg.MaxRetry; i++ {
		cli, err = connectMongo(ctx, opts)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second / 2):
		}
	}
	if err != nil {
		return errs.WrapMsg(err, "failed to connect to MongoDB", "URI", cfg.Uri)
	}

	mongoDB = cli.Database(cfg.Database)
	return nil
}

func connectMongo(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return cli, nil
}

// MongoDB returns the database handle, or nil before InitMongo succeeds.
func MongoDB() *mongo.Database { return mongoDB }
