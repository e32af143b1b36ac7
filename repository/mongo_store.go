package repository

import (
	"context"
	"errors"
	"time"

	"stockbrief/customerrors"
	"stockbrief/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStockStore struct {
	collection *mongo.Collection
}

func NewMongoStockStore(db *mongo.Database) *MongoStockStore {
	return &MongoStockStore{
		collection: db.Collection(model.StockCollectionName),
	}
}

func (s *MongoStockStore) Get(ctx context.Context, ticker string) (*model.StockInfo, error) {
	var info model.StockInfo
	err := s.collection.FindOne(ctx, bson.M{"_id": ticker}).Decode(&info)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Consistent with our Optional pattern
		}
		return nil, err
	}
	return &info, nil
}

func (s *MongoStockStore) Save(ctx context.Context, info *model.StockInfo) error {
	now := time.Now().UTC()
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"_id": info.Ticker},
		bson.M{
			"$set": bson.M{
				"name":        info.Name,
				"chineseName": info.ChineseName,
				"exchange":    info.Exchange,
				"updatedAt":   now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		opts,
	)
	return err
}

func (s *MongoStockStore) UpdateSection(ctx context.Context, ticker string, section model.Section, body string) error {
	now := time.Now().UTC()
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"_id": ticker},
		bson.M{
			"$set": bson.M{
				"sections." + string(section): body,
				"updatedAt":                   now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		opts,
	)
	return err
}

func (s *MongoStockStore) Delete(ctx context.Context, ticker string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": ticker})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return customerrors.ErrStockNotFound
	}
	return nil
}

func (s *MongoStockStore) List(ctx context.Context) ([]model.StockInfo, error) {
	var infos []model.StockInfo
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &infos); err != nil {
		return nil, err
	}

	if infos == nil {
		return []model.StockInfo{}, nil
	}
	return infos, nil
}
