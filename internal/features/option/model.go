package option

import (
	"time"

	"store-console/pkg/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SourceType string

const (
	SourceStatic SourceType = "static" // options embedded in the source document
	SourceTable  SourceType = "table"  // id/name rows from an external SQL table
	SourceScript SourceType = "script" // tengo script producing the option list
)

// TableConfig describes an external SQL table serving option rows.
type TableConfig struct {
	Driver     string `json:"driver" bson:"driver"` // "postgres" or "mysql"
	DSN        string `json:"dsn" bson:"dsn"`
	Table      string `json:"table" bson:"table"`
	IDColumn   string `json:"id_column" bson:"id_column"`
	NameColumn string `json:"name_column" bson:"name_column"`
}

// DropdownSource is a tenant-configured provider of option lists for
// one or more condition keys.
type DropdownSource struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID      string             `json:"tenant_id" bson:"tenant_id"`
	Name          string             `json:"name" bson:"name"`
	Type          SourceType         `json:"type" bson:"type"`
	ConditionKeys []string           `json:"condition_keys" bson:"condition_keys"`
	Options       []policy.Option    `json:"options,omitempty" bson:"options,omitempty"`
	Table         *TableConfig       `json:"table,omitempty" bson:"table,omitempty"`
	Script        string             `json:"script,omitempty" bson:"script,omitempty"`
	IsActive      bool               `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
