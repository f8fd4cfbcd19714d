package model

import "time"

// Gender 性别
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid 是否为合法性别取值
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// MinDonorWeight 献血者最低体重（kg）
const MinDonorWeight = 50

// EmergencyContact 紧急联系人
type EmergencyContact struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
}

// DonationRecord 单次献血记录
type DonationRecord struct {
	Date      time.Time `json:"date" bson:"date"`
	BloodBank string    `json:"bloodBank" bson:"blood_bank"`
	Units     int       `json:"units" bson:"units"`
}

// Donor 献血者档案
//
// 软删除：仅通过 IsActive 置 false，不做物理删除。
type Donor struct {
	ID          string     `json:"id" bson:"_id"`
	FirstName   string     `json:"firstName" bson:"first_name"`
	LastName    string     `json:"lastName" bson:"last_name"`
	Email       string     `json:"email" bson:"email"`
	Phone       string     `json:"phone" bson:"phone"`
	DateOfBirth time.Time  `json:"dateOfBirth" bson:"date_of_birth"`
	Gender      Gender     `json:"gender" bson:"gender"`
	BloodGroup  BloodGroup `json:"bloodGroup" bson:"blood_group"`
	Weight      float64    `json:"weight" bson:"weight"` // >= MinDonorWeight
	Address     string     `json:"address" bson:"address"`
	City        string     `json:"city" bson:"city"`
	State       string     `json:"state" bson:"state"`
	Pincode     string     `json:"pincode" bson:"pincode"`

	LastDonation     *time.Time       `json:"lastDonation,omitempty" bson:"last_donation,omitempty"`
	EmergencyContact EmergencyContact `json:"emergencyContact" bson:"emergency_contact"`
	IsActive         bool             `json:"isActive" bson:"is_active"`
	DonationHistory  []DonationRecord `json:"donationHistory,omitempty" bson:"donation_history,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
