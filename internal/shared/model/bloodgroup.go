// Package model 定义核心数据模型
//
// 所有实体使用 bson tag 供 mongostore 序列化，json tag 供 API 层输出。
// 血型兼容表、权限表等纯查表逻辑也放在本包，供 handler 和存储层共用。
package model

// BloodGroup 血型（8 种枚举值）
type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

// AllBloodGroups 全部血型，固定顺序（汇总和展示按此顺序输出）
var AllBloodGroups = []BloodGroup{
	BloodGroupAPos, BloodGroupANeg,
	BloodGroupBPos, BloodGroupBNeg,
	BloodGroupABPos, BloodGroupABNeg,
	BloodGroupOPos, BloodGroupONeg,
}

// IsValid 是否为合法血型
func (g BloodGroup) IsValid() bool {
	switch g {
	case BloodGroupAPos, BloodGroupANeg, BloodGroupBPos, BloodGroupBNeg,
		BloodGroupABPos, BloodGroupABNeg, BloodGroupOPos, BloodGroupONeg:
		return true
	}
	return false
}

// compatibleDonors 输血兼容表：受血者血型 → 可供血的献血者血型（有序）
var compatibleDonors = map[BloodGroup][]BloodGroup{
	BloodGroupONeg:  {BloodGroupONeg},
	BloodGroupOPos:  {BloodGroupOPos, BloodGroupONeg},
	BloodGroupANeg:  {BloodGroupANeg, BloodGroupONeg},
	BloodGroupAPos:  {BloodGroupAPos, BloodGroupANeg, BloodGroupOPos, BloodGroupONeg},
	BloodGroupBNeg:  {BloodGroupBNeg, BloodGroupONeg},
	BloodGroupBPos:  {BloodGroupBPos, BloodGroupBNeg, BloodGroupOPos, BloodGroupONeg},
	BloodGroupABNeg: {BloodGroupANeg, BloodGroupBNeg, BloodGroupABNeg, BloodGroupONeg},
	BloodGroupABPos: {
		BloodGroupAPos, BloodGroupANeg, BloodGroupBPos, BloodGroupBNeg,
		BloodGroupABPos, BloodGroupABNeg, BloodGroupOPos, BloodGroupONeg,
	},
}

// CompatibleDonorGroups 返回可以向指定血型受血者供血的献血者血型集合
//
// 表是固定的医学输血兼容规则，非法血型返回 nil。
// 注意：献血者搜索接口是精确匹配，不做兼容扩展，本表仅用于兼容性展示。
func CompatibleDonorGroups(requested BloodGroup) []BloodGroup {
	groups, ok := compatibleDonors[requested]
	if !ok {
		return nil
	}
	out := make([]BloodGroup, len(groups))
	copy(out, groups)
	return out
}
