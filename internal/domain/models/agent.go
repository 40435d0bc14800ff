package models

// Agent 表示一份特工档案
type Agent struct {
	BaseModel
	Codename      string  `gorm:"type:varchar(30);uniqueIndex;not null" json:"codename"`
	ContactNumber *string `gorm:"type:varchar(20);uniqueIndex" json:"contact_number"` // 可为空，空值不参与唯一性比较
	Email         string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	AccessLevelID uint    `gorm:"not null;index" json:"access_level_id"`

	// Relations - 关联关系
	AccessLevel *AccessLevel `gorm:"foreignKey:AccessLevelID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"access_level,omitempty"`
}

// Contact 返回用于展示的联系电话，未填写时为空字符串
func (a *Agent) Contact() string {
	if a.ContactNumber == nil {
		return ""
	}
	return *a.ContactNumber
}

// AccessLevelName 返回关联的访问级别名称
func (a *Agent) AccessLevelName() string {
	if a.AccessLevel == nil {
		return ""
	}
	return a.AccessLevel.Name
}
