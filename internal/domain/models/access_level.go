package models

// DefaultAccessLevels 首次启动时写入的访问级别
var DefaultAccessLevels = []string{"Confidential", "Secret", "Top Secret"}

// AccessLevel 表示特工的保密级别，系统内只读
type AccessLevel struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}
