package model

import "time"

// StateEntry 键值状态表：一个集合名对应一份完整的 JSON 快照
type StateEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string    `gorm:"type:longtext;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StateEntry) TableName() string {
	return "state_entries"
}
