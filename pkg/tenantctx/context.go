// Package tenantctx carries the requesting organization through a context.
package tenantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type keyType string

const orgIDKey keyType = "org_id"

// WithOrgID returns a context scoped to the given organization.
func WithOrgID(ctx context.Context, orgID snowflake.ID) context.Context {
	return context.WithValue(ctx, orgIDKey, orgID)
}

// OrgID returns the organization bound to the context, if any.
func OrgID(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(orgIDKey).(snowflake.ID)
	return id, ok
}
