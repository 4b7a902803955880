package advpermission

import (
	"context"
	"time"

	common_models "store-console/internal/common/models"
	"store-console/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SchemaRepository interface {
	FindSchema(ctx context.Context, moduleKey, featureKey string) (*PermissionSchema, error)
	UpsertSchema(ctx context.Context, schema *PermissionSchema) error
	ListSchemas(ctx context.Context) ([]PermissionSchema, error)
}

type PolicyRepository interface {
	FindPolicy(ctx context.Context, roleID, moduleKey, featureKey string) (*RolePolicy, error)
	ListPoliciesForRole(ctx context.Context, roleID string) ([]RolePolicy, error)
	ReplacePolicy(ctx context.Context, policy *RolePolicy) error
	DeletePoliciesForRole(ctx context.Context, roleID string) error
}

type SchemaRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSchemaRepository(mongodb *database.MongodbDB) SchemaRepository {
	return &SchemaRepositoryImpl{
		collection: mongodb.DB.Collection("permission_schemas"),
	}
}

func schemaFilter(ctx context.Context, filter bson.M) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	if tenantID, ok := ctx.Value(common_models.TenantIDKey).(string); ok && tenantID != "" {
		filter["tenant_id"] = tenantID
	}
	return filter
}

func (r *SchemaRepositoryImpl) FindSchema(ctx context.Context, moduleKey, featureKey string) (*PermissionSchema, error) {
	filter := schemaFilter(ctx, bson.M{
		"module_key":  moduleKey,
		"feature_key": featureKey,
	})

	var schema PermissionSchema
	err := r.collection.FindOne(ctx, filter).Decode(&schema)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &schema, nil
}

func (r *SchemaRepositoryImpl) UpsertSchema(ctx context.Context, schema *PermissionSchema) error {
	if tenantID, ok := ctx.Value(common_models.TenantIDKey).(string); ok && tenantID != "" {
		schema.TenantID = tenantID
	}
	now := time.Now()
	schema.UpdatedAt = now

	filter := schemaFilter(ctx, bson.M{
		"module_key":  schema.ModuleKey,
		"feature_key": schema.FeatureKey,
	})

	update := bson.M{
		"$set": bson.M{
			"module_name":                 schema.ModuleName,
			"feature_name":                schema.FeatureName,
			"components":                  schema.Components,
			"special_actions":             schema.SpecialActions,
			"data_access_conditions":      schema.DataAccessConditions,
			"permissions_with_conditions": schema.PermissionsWithConditions,
			"tenant_id":                   schema.TenantID,
			"updated_at":                  now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *SchemaRepositoryImpl) ListSchemas(ctx context.Context) ([]PermissionSchema, error) {
	cursor, err := r.collection.Find(ctx, schemaFilter(ctx, nil))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schemas []PermissionSchema
	if err := cursor.All(ctx, &schemas); err != nil {
		return nil, err
	}
	return schemas, nil
}

type PolicyRepositoryImpl struct {
	collection *mongo.Collection
}

func NewPolicyRepository(mongodb *database.MongodbDB) PolicyRepository {
	return &PolicyRepositoryImpl{
		collection: mongodb.DB.Collection("role_policies"),
	}
}

func (r *PolicyRepositoryImpl) FindPolicy(ctx context.Context, roleID, moduleKey, featureKey string) (*RolePolicy, error) {
	oid, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return nil, err
	}

	filter := schemaFilter(ctx, bson.M{
		"role_id":     oid,
		"module_key":  moduleKey,
		"feature_key": featureKey,
	})

	var rp RolePolicy
	err = r.collection.FindOne(ctx, filter).Decode(&rp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rp, nil
}

func (r *PolicyRepositoryImpl) ListPoliciesForRole(ctx context.Context, roleID string) ([]RolePolicy, error) {
	oid, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, schemaFilter(ctx, bson.M{"role_id": oid}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var policies []RolePolicy
	if err := cursor.All(ctx, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

// ReplacePolicy swaps the stored policy for one role/module/feature in a
// transaction so a concurrent reader never sees a half-written state.
func (r *PolicyRepositoryImpl) ReplacePolicy(ctx context.Context, policy *RolePolicy) error {
	if tenantID, ok := ctx.Value(common_models.TenantIDKey).(string); ok && tenantID != "" {
		policy.TenantID = tenantID
	}
	now := time.Now()
	policy.UpdatedAt = now
	if policy.CreatedAt.IsZero() {
		policy.CreatedAt = now
	}

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	filter := schemaFilter(ctx, bson.M{
		"role_id":     policy.RoleID,
		"module_key":  policy.ModuleKey,
		"feature_key": policy.FeatureKey,
	})

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		_, err := r.collection.DeleteMany(sessCtx, filter)
		if err != nil {
			return nil, err
		}

		_, err = r.collection.InsertOne(sessCtx, policy)
		if err != nil {
			return nil, err
		}

		return nil, nil
	})

	return err
}

func (r *PolicyRepositoryImpl) DeletePoliciesForRole(ctx context.Context, roleID string) error {
	oid, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteMany(ctx, schemaFilter(ctx, bson.M{"role_id": oid}))
	return err
}
