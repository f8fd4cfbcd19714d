package model

import "time"

// OperatingHours 营业时间
type OperatingHours struct {
	Open  string `json:"open,omitempty" bson:"open,omitempty"`
	Close string `json:"close,omitempty" bson:"close,omitempty"`
}

// BloodBank 血库
//
// BloodInventory 以血型为键记录库存单位数（非负），更新时整体替换，
// 不做增量调整。并发替换为 last-writer-wins，无版本校验。
type BloodBank struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
	Phone   string `json:"phone" bson:"phone"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
	License string `json:"license,omitempty" bson:"license,omitempty"`

	BloodInventory map[BloodGroup]int `json:"bloodInventory" bson:"blood_inventory"`
	OperatingHours OperatingHours     `json:"operatingHours" bson:"operating_hours"`
	Facilities     []string           `json:"facilities,omitempty" bson:"facilities,omitempty"`
	IsActive       bool               `json:"isActive" bson:"is_active"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// AvailabilitySummary 全网血液可用量汇总
type AvailabilitySummary struct {
	TotalBanks  int                `json:"totalBanks"`
	BloodGroups map[BloodGroup]int `json:"bloodGroups"`
}

// SummarizeAvailability 汇总所有活跃血库的各血型库存
//
// 纯函数：8 种血型逐一求和，缺失键记 0，非活跃血库不计入。
func SummarizeAvailability(banks []*BloodBank) *AvailabilitySummary {
	summary := &AvailabilitySummary{
		BloodGroups: make(map[BloodGroup]int, len(AllBloodGroups)),
	}
	for _, g := range AllBloodGroups {
		summary.BloodGroups[g] = 0
	}
	for _, bank := range banks {
		if !bank.IsActive {
			continue
		}
		summary.TotalBanks++
		for _, g := range AllBloodGroups {
			summary.BloodGroups[g] += bank.BloodInventory[g]
		}
	}
	return summary
}
