package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type CollectionName string

const (
	CollectionNameUsers    CollectionName = "users"
	CollectionNameChats    CollectionName = "chats"
	CollectionNameMessages CollectionName = "messages"
	CollectionNameFriends  CollectionName = "friends"
)

type Instance interface {
	Collection(name CollectionName) *mongo.Collection
	Ping(ctx context.Context) error
	RawClient() *mongo.Client
	RawDatabase() *mongo.Database
}

type inst struct {
	client *mongo.Client
	db     *mongo.Database
}

type Options struct {
	URI      string
	Username string
	Password string
	DB       string
	Direct   bool
}

func New(ctx context.Context, opt Options) (Instance, error) {
	clientOptions := options.Client().ApplyURI(opt.URI).SetDirect(opt.Direct)

	if opt.Username != "" || opt.Password != "" {
		clientOptions = clientOptions.SetAuth(options.Credential{
			Username: opt.Username,
			Password: opt.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	zap.S().Infow("mongo connected",
		"db", opt.DB,
	)

	return &inst{
		client: client,
		db:     client.Database(opt.DB),
	}, nil
}

func (i *inst) Collection(name CollectionName) *mongo.Collection {
	return i.db.Collection(string(name))
}

func (i *inst) Ping(ctx context.Context) error {
	return i.client.Ping(ctx, readpref.Primary())
}

func (i *inst) RawClient() *mongo.Client {
	return i.client
}

func (i *inst) RawDatabase() *mongo.Database {
	return i.db
}
