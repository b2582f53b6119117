package event

type DeleteTrustProfileCacheEvent struct {
	ActorID   string `json:"actor_id"`
	ContextID string `json:"context_id"`
}

func (e DeleteTrustProfileCacheEvent) Type() string {
	return DeleteTrustProfileCacheEventType
}
