package model

import "time"

// UserRole 用户角色
type UserRole string

const (
	UserRoleDonor     UserRole = "donor"
	UserRoleBloodBank UserRole = "bloodbank"
	UserRoleAdmin     UserRole = "admin"
	UserRoleHospital  UserRole = "hospital"
)

// IsValid 是否为已知角色
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleDonor, UserRoleBloodBank, UserRoleAdmin, UserRoleHospital:
		return true
	}
	return false
}

// Profile 用户附加资料
type Profile struct {
	Avatar      string     `json:"avatar,omitempty" bson:"avatar,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" bson:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty" bson:"gender,omitempty"`
	BloodGroup  BloodGroup `json:"bloodGroup,omitempty" bson:"blood_group,omitempty"`
	Address     string     `json:"address,omitempty" bson:"address,omitempty"`
	City        string     `json:"city,omitempty" bson:"city,omitempty"`
	State       string     `json:"state,omitempty" bson:"state,omitempty"`
	Pincode     string     `json:"pincode,omitempty" bson:"pincode,omitempty"`
}

// NotificationPrefs 通知偏好
type NotificationPrefs struct {
	Email bool `json:"email" bson:"email"`
	SMS   bool `json:"sms" bson:"sms"`
	Push  bool `json:"push" bson:"push"`
}

// PrivacyPrefs 隐私偏好
type PrivacyPrefs struct {
	ShowProfile bool `json:"showProfile" bson:"show_profile"`
	ShowContact bool `json:"showContact" bson:"show_contact"`
}

// Preferences 用户偏好设置
type Preferences struct {
	Notifications NotificationPrefs `json:"notifications" bson:"notifications"`
	Privacy       PrivacyPrefs      `json:"privacy" bson:"privacy"`
}

// DefaultPreferences 返回默认偏好（全部开启）
func DefaultPreferences() Preferences {
	return Preferences{
		Notifications: NotificationPrefs{Email: true, SMS: true, Push: true},
		Privacy:       PrivacyPrefs{ShowProfile: true, ShowContact: true},
	}
}

// User 用户
//
// 不变式：email 全小写且唯一（mongostore 唯一索引保证）；
// PasswordHash 永不出现在 JSON 输出中。
type User struct {
	ID           string   `json:"id" bson:"_id"`
	FirstName    string   `json:"firstName" bson:"first_name"`
	LastName     string   `json:"lastName" bson:"last_name"`
	Email        string   `json:"email" bson:"email"`
	PasswordHash string   `json:"-" bson:"password_hash"` // never expose in JSON
	Role         UserRole `json:"role" bson:"role"`
	Phone        string   `json:"phone" bson:"phone"`

	IsVerified        bool   `json:"isVerified" bson:"is_verified"`
	VerificationToken string `json:"-" bson:"verification_token,omitempty"`

	ResetPasswordToken   string     `json:"-" bson:"reset_password_token,omitempty"`
	ResetPasswordExpires *time.Time `json:"-" bson:"reset_password_expires,omitempty"`

	Profile     Profile     `json:"profile" bson:"profile"`
	Preferences Preferences `json:"preferences" bson:"preferences"`

	LastLogin  *time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	LoginCount int        `json:"loginCount" bson:"login_count"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
