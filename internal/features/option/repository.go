package option

import (
	"context"
	"fmt"

	common_models "store-console/internal/common/models"
	"store-console/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SourceRepository interface {
	Create(ctx context.Context, source *DropdownSource) error
	List(ctx context.Context) ([]DropdownSource, error)
	FindByConditionKeys(ctx context.Context, keys []string) ([]DropdownSource, error)
	Delete(ctx context.Context, id string) error
}

type SourceRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSourceRepository(mongodb *database.MongodbDB) SourceRepository {
	return &SourceRepositoryImpl{
		collection: mongodb.DB.Collection("dropdown_sources"),
	}
}

func tenantFilter(ctx context.Context) bson.M {
	filter := bson.M{}
	if tenantID, ok := ctx.Value(common_models.TenantIDKey).(string); ok && tenantID != "" {
		filter["tenant_id"] = tenantID
	}
	return filter
}

func (r *SourceRepositoryImpl) Create(ctx context.Context, source *DropdownSource) error {
	if tenantID, ok := ctx.Value(common_models.TenantIDKey).(string); ok {
		source.TenantID = tenantID
	}
	_, err := r.collection.InsertOne(ctx, source)
	return err
}

func (r *SourceRepositoryImpl) List(ctx context.Context) ([]DropdownSource, error) {
	cursor, err := r.collection.Find(ctx, tenantFilter(ctx))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sources []DropdownSource
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *SourceRepositoryImpl) FindByConditionKeys(ctx context.Context, keys []string) ([]DropdownSource, error) {
	if len(keys) == 0 {
		return []DropdownSource{}, nil
	}

	filter := tenantFilter(ctx)
	filter["is_active"] = true
	filter["condition_keys"] = bson.M{"$in": keys}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sources []DropdownSource
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *SourceRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("dropdown source not found")
	}
	return nil
}
