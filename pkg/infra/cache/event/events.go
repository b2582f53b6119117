package event

import "reflect"

type Event interface {
	Type() string
}

var (
	DeleteRoomPolicyCacheEventType   = "DeleteRoomPolicyCacheEvent"
	DeleteTrustProfileCacheEventType = "DeleteTrustProfileCacheEvent"
)

var Registry = map[string]reflect.Type{
	DeleteRoomPolicyCacheEventType:   reflect.TypeOf(DeleteRoomPolicyCacheEvent{}),
	DeleteTrustProfileCacheEventType: reflect.TypeOf(DeleteTrustProfileCacheEvent{}),
}
