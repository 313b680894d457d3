package notification

import "time"

type UnreadCache interface {
	GetByUserID(userID string) (int64, bool)
	SetByUserID(userID string, count int64, ttl time.Duration)
	DeleteByUserID(userID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByUserID(string) (int64, bool) {
	return 0, false
}

func (noopCache) SetByUserID(string, int64, time.Duration) {}

func (noopCache) DeleteByUserID(string) {}

func (noopCache) Clear() {}
