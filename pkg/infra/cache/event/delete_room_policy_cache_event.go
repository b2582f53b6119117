package event

type DeleteRoomPolicyCacheEvent struct {
	RoomID string `json:"room_id"`
}

func (e DeleteRoomPolicyCacheEvent) Type() string {
	return DeleteRoomPolicyCacheEventType
}
