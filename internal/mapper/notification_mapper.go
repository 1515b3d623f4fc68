package mapper

import (
	"library-management-be/internal/entity"
	"library-management-be/internal/model"

	jsoniter "github.com/json-iterator/go"
	"gorm.io/datatypes"
)

var metaJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(n.Metadata) > 0 {
		// metadata is written by us; a bad blob should not hide the notification
		_ = metaJSON.Unmarshal(n.Metadata, &meta)
	}
	return &entity.Notification{
		Id:        n.ID,
		UserId:    n.UserID,
		TypeCode:  entity.NotificationType(n.TypeCode),
		Title:     n.Title,
		Message:   n.Message,
		Metadata:  meta,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func (m *NotificationMapper) ToModel(n *entity.Notification) (*model.Notification, error) {
	if n == nil {
		return nil, nil
	}
	out := &model.Notification{
		ID:        n.Id,
		UserID:    n.UserId,
		TypeCode:  string(n.TypeCode),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.Metadata != nil {
		raw, err := metaJSON.Marshal(n.Metadata)
		if err != nil {
			return nil, err
		}
		out.Metadata = datatypes.JSON(raw)
	}
	return out, nil
}

func (m *NotificationMapper) ToEntities(ns []*model.Notification) []*entity.Notification {
	entities := make([]*entity.Notification, len(ns))
	for i, n := range ns {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
