package main

import (
	"context"
	"log"

	common_models "store-console/internal/common/models"
	"store-console/internal/config"
	"store-console/internal/database"
	"store-console/internal/features/advpermission"
	"store-console/internal/features/option"
	"store-console/internal/features/role"
	"store-console/internal/logger"
	"store-console/pkg/policy"
	"store-console/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed provisions the default tenant with demo roles, the storefront
// permission schemas, and dropdown sources for the condition keys the
// schemas use.
func Seed(
	lc fx.Lifecycle,
	roleRepo role.RoleRepository,
	schemaRepo advpermission.SchemaRepository,
	sourceRepo option.SourceRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx = context.WithValue(context.Background(), common_models.TenantIDKey, "default")

				logger.Info("Seeding demo roles...")
				seedRoles(ctx, roleRepo, logger)

				logger.Info("Seeding permission schemas...")
				seedSchemas(ctx, schemaRepo, logger)

				logger.Info("Seeding dropdown sources...")
				seedSources(ctx, sourceRepo, logger)

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func seedRoles(ctx context.Context, repo role.RoleRepository, logger *zap.Logger) {
	roles := []role.Role{
		{Name: "Administrator", Description: "Full access to every storefront module", IsSystem: true},
		{Name: "Store Manager", Description: "Manages orders, inventory and customers"},
		{Name: "Support Agent", Description: "Read-only order access with refund escalation"},
	}

	for i := range roles {
		existing, err := repo.FindByName(ctx, roles[i].Name)
		if err != nil {
			logger.Error("Failed to look up role", zap.String("role", roles[i].Name), zap.Error(err))
			continue
		}
		if existing != nil {
			logger.Info("Role exists, skipping", zap.String("role", roles[i].Name))
			continue
		}
		if err := repo.Create(ctx, &roles[i]); err != nil {
			logger.Error("Failed to create role", zap.String("role", roles[i].Name), zap.Error(err))
		}
	}
}

func seedSchemas(ctx context.Context, repo advpermission.SchemaRepository, logger *zap.Logger) {
	schemas := []advpermission.PermissionSchema{
		{
			ModuleName:  "Storefront",
			FeatureName: "Orders",
			Components: []policy.Component{
				{ID: "order_list", Name: "Order list", Description: "Browse and search orders", PermissionKey: policy.KeyVisibleComponents},
				{ID: "order_detail", Name: "Order detail", Description: "Single order view with line items", PermissionKey: policy.KeyVisibleComponents},
				{ID: "order_timeline", Name: "Order timeline", Description: "Fulfilment and payment history", PermissionKey: policy.KeyVisibleComponents},
			},
			SpecialActions: []policy.SpecialAction{
				{ID: "refund_order", Name: "Refund order", Description: "Issue full or partial refunds", PermissionID: 11, Key: policy.KeySpecialActions},
				{ID: "cancel_order", Name: "Cancel order", Description: "Cancel before fulfilment", PermissionID: 12, Key: policy.KeySpecialActions},
			},
			DataAccessConditions: []policy.DataAccessCondition{
				{ConditionKey: "region", Name: "Region", Description: "Limit to orders shipped to these regions"},
				{ConditionKey: "sales_channel", Name: "Sales channel", Description: "Limit to orders from these channels"},
			},
			PermissionsWithConditions: []policy.Permission{
				{ID: 1, PermissionKey: policy.KeyVisibleComponents, Name: "Visible components", IsActive: true},
				{ID: 2, PermissionKey: policy.KeySpecialActions, Name: "Special actions", IsActive: true,
					Conditions: []policy.DataAccessCondition{
						{ConditionKey: "region", Name: "Region"},
						{ConditionKey: "sales_channel", Name: "Sales channel"},
					}},
			},
		},
		{
			ModuleName:  "Storefront",
			FeatureName: "Customers",
			Components: []policy.Component{
				{ID: "customer_list", Name: "Customer list", PermissionKey: policy.KeyVisibleComponents},
				{ID: "customer_profile", Name: "Customer profile", PermissionKey: policy.KeyVisibleComponents},
			},
			SpecialActions: []policy.SpecialAction{
				{ID: "merge_customers", Name: "Merge customers", PermissionID: 21, Key: policy.KeySpecialActions},
				{ID: "export_customers", Name: "Export customers", PermissionID: 22, Key: policy.KeySpecialActions},
			},
			DataAccessConditions: []policy.DataAccessCondition{
				{ConditionKey: "customer_segment", Name: "Customer segment"},
			},
			PermissionsWithConditions: []policy.Permission{
				{ID: 3, PermissionKey: policy.KeyVisibleComponents, Name: "Visible components", IsActive: true,
					Conditions: []policy.DataAccessCondition{
						{ConditionKey: "customer_segment", Name: "Customer segment"},
					}},
				{ID: 4, PermissionKey: policy.KeySpecialActions, Name: "Special actions", IsActive: true},
			},
		},
	}

	for i := range schemas {
		schemas[i].ModuleKey = utils.Slugify(schemas[i].ModuleName)
		schemas[i].FeatureKey = utils.Slugify(schemas[i].FeatureName)
		if err := repo.UpsertSchema(ctx, &schemas[i]); err != nil {
			logger.Error("Failed to upsert schema",
				zap.String("module", schemas[i].ModuleKey),
				zap.String("feature", schemas[i].FeatureKey),
				zap.Error(err))
		}
	}
}

func seedSources(ctx context.Context, repo option.SourceRepository, logger *zap.Logger) {
	sources := []option.DropdownSource{
		{
			Name:          "Regions",
			Type:          option.SourceStatic,
			ConditionKeys: []string{"region"},
			Options: []policy.Option{
				{ID: "north", Name: "North"},
				{ID: "south", Name: "South"},
				{ID: "east", Name: "East"},
				{ID: "west", Name: "West"},
			},
			IsActive: true,
		},
		{
			Name:          "Sales channels",
			Type:          option.SourceStatic,
			ConditionKeys: []string{"sales_channel"},
			Options: []policy.Option{
				{ID: "web", Name: "Web store"},
				{ID: "pos", Name: "Point of sale"},
				{ID: "marketplace", Name: "Marketplace"},
			},
			IsActive: true,
		},
		{
			Name:          "Customer segments",
			Type:          option.SourceScript,
			ConditionKeys: []string{"customer_segment"},
			Script: `
options := []
for key in keys {
	options = append(options,
		{id: "vip", name: "VIP"},
		{id: "regular", name: "Regular"},
		{id: "at_risk", name: "At risk"})
}
`,
			IsActive: true,
		},
	}

	existing, err := repo.List(ctx)
	if err != nil {
		logger.Error("Failed to list dropdown sources", zap.Error(err))
		return
	}
	known := make(map[string]bool, len(existing))
	for _, src := range existing {
		known[src.Name] = true
	}

	for i := range sources {
		if known[sources[i].Name] {
			logger.Info("Dropdown source exists, skipping", zap.String("source", sources[i].Name))
			continue
		}
		if err := repo.Create(ctx, &sources[i]); err != nil {
			logger.Error("Failed to create dropdown source", zap.String("source", sources[i].Name), zap.Error(err))
		}
	}
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			role.NewRoleRepository,
			advpermission.NewSchemaRepository,
			option.NewSourceRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Err(); err != nil {
		log.Fatalf("Failed to initialize seeder: %v", err)
	}

	app.Run()
}
