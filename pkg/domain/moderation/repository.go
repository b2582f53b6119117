package moderation

import (
	"context"
)

//go:generate mockery --name=RoomPolicyRepository --dir=. --output=./mocks --filename=room_policy_repository_mock.go --case=underscore --with-expecter
type RoomPolicyRepository interface {
	Get(ctx context.Context, contextID string) (*RoomPolicy, error)
	Save(ctx context.Context, policy *RoomPolicy) error
}

//go:generate mockery --name=AuditRepository --dir=. --output=./mocks --filename=audit_repository_mock.go --case=underscore --with-expecter
type AuditRepository interface {
	Save(ctx context.Context, record *AuditRecord) error
	ListByActor(ctx context.Context, actorID string, limit int) ([]AuditRecord, error)
}
