package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the assignable unit the advanced permission editor configures.
// The simple CRUD matrix and user assignment live in other services;
// this console only owns the role identity and its advanced policy.
type Role struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID    string             `json:"tenant_id" bson:"tenant_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	IsSystem    bool               `json:"is_system" bson:"is_system"` // Prevent deletion of system roles
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
