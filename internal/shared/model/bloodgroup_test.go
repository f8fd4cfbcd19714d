package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompatibleDonorGroups_Reflexivity 每种血型的兼容集合都包含自身
func TestCompatibleDonorGroups_Reflexivity(t *testing.T) {
	for _, g := range AllBloodGroups {
		groups := CompatibleDonorGroups(g)
		require.NotEmpty(t, groups, "blood group %s", g)
		assert.Contains(t, groups, g, "blood group %s should accept itself", g)
	}
}

// TestCompatibleDonorGroups_UniversalDonor O- 是万能供血者，出现在所有兼容集合中
func TestCompatibleDonorGroups_UniversalDonor(t *testing.T) {
	for _, g := range AllBloodGroups {
		groups := CompatibleDonorGroups(g)
		assert.Contains(t, groups, BloodGroupONeg, "O- should be compatible with %s", g)
	}
}

// TestCompatibleDonorGroups_ONegOnlyAcceptsONeg O- 受血者只能接受 O-
func TestCompatibleDonorGroups_ONegOnlyAcceptsONeg(t *testing.T) {
	groups := CompatibleDonorGroups(BloodGroupONeg)
	assert.Equal(t, []BloodGroup{BloodGroupONeg}, groups)
}

// TestCompatibleDonorGroups_ABPosAcceptsAll AB+ 是万能受血者，兼容全部 8 种血型
func TestCompatibleDonorGroups_ABPosAcceptsAll(t *testing.T) {
	groups := CompatibleDonorGroups(BloodGroupABPos)
	require.Len(t, groups, 8)
	for _, g := range AllBloodGroups {
		assert.Contains(t, groups, g)
	}
}

// TestCompatibleDonorGroups_FixedTable 逐行校验固定兼容表
func TestCompatibleDonorGroups_FixedTable(t *testing.T) {
	tests := []struct {
		requested BloodGroup
		want      []BloodGroup
	}{
		{BloodGroupOPos, []BloodGroup{BloodGroupOPos, BloodGroupONeg}},
		{BloodGroupANeg, []BloodGroup{BloodGroupANeg, BloodGroupONeg}},
		{BloodGroupAPos, []BloodGroup{BloodGroupAPos, BloodGroupANeg, BloodGroupOPos, BloodGroupONeg}},
		{BloodGroupBNeg, []BloodGroup{BloodGroupBNeg, BloodGroupONeg}},
		{BloodGroupBPos, []BloodGroup{BloodGroupBPos, BloodGroupBNeg, BloodGroupOPos, BloodGroupONeg}},
		{BloodGroupABNeg, []BloodGroup{BloodGroupANeg, BloodGroupBNeg, BloodGroupABNeg, BloodGroupONeg}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompatibleDonorGroups(tt.requested), "requested %s", tt.requested)
	}
}

// TestCompatibleDonorGroups_Invalid 非法血型返回 nil
func TestCompatibleDonorGroups_Invalid(t *testing.T) {
	assert.Nil(t, CompatibleDonorGroups("C+"))
	assert.Nil(t, CompatibleDonorGroups(""))
}

func TestBloodGroupIsValid(t *testing.T) {
	for _, g := range AllBloodGroups {
		assert.True(t, g.IsValid())
	}
	assert.False(t, BloodGroup("C+").IsValid())
	assert.False(t, BloodGroup("a+").IsValid())
	assert.False(t, BloodGroup("").IsValid())
}
