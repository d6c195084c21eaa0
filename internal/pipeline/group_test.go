package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydroview/internal/models"
)

func TestParseDeviceLabel(t *testing.T) {
	cases := []struct {
		raw  string
		want DeviceLabel
		ok   bool
	}{
		{"NH001-雨量计-在线", DeviceLabel{ID: "NH001", Category: "雨量计", State: "在线"}, true},
		{"NH002-气象站-在线(备用)", DeviceLabel{ID: "NH002", Category: "气象站", State: "在线", Qualifier: "备用"}, true},
		{"NH003-温度计-离线（已迁移）", DeviceLabel{ID: "NH003", Category: "温度计", State: "离线", Qualifier: "已迁移"}, true},
		{"free-text label", DeviceLabel{}, false},
		{"", DeviceLabel{}, false},
		{"NH004-雨量计", DeviceLabel{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDeviceLabel(tc.raw)
		assert.Equal(t, tc.ok, ok, "label %q", tc.raw)
		assert.Equal(t, tc.want, got, "label %q", tc.raw)
	}
}

func record(sensor, variable string, value float64) models.Measurement {
	return models.Measurement{
		Timestamp:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		SensorID:     sensor,
		VariableType: variable,
		Value:        value,
	}
}

func TestGroupByQuantityTwoQuantitiesThreeSensors(t *testing.T) {
	records := []models.Measurement{
		record("NH001-雨量计-在线", "temperature", 1),
		record("NH002-雨量计-在线", "temperature", 2),
		record("NH003-雨量计-在线", "temperature", 3),
		record("NH001-雨量计-在线", "humidity", 4),
		record("NH002-雨量计-在线", "humidity", 5),
	}
	groups := BuildGroups(records, models.GroupByQuantity, nil, []string{"temperature", "humidity"})

	require.Len(t, groups, 2)
	assert.Equal(t, "temperature 对比分析", groups[0].Title)
	assert.Equal(t, "humidity 对比分析", groups[1].Title)
	assert.Len(t, groups[0].Series, 3)
	assert.Len(t, groups[1].Series, 2)
}

func TestGroupByIdentityExcludesUnparsedLabels(t *testing.T) {
	records := []models.Measurement{
		record("NH001-雨量计-在线", "temperature", 1),
		record("weird label", "temperature", 2),
	}

	byIdentity := BuildGroups(records, models.GroupByIdentity, nil, nil)
	require.Len(t, byIdentity, 1)
	assert.Equal(t, "NH001 数据总览", byIdentity[0].Title)
	require.Len(t, byIdentity[0].Series, 1)
	require.Len(t, byIdentity[0].Series[0].Records, 1)
	assert.Equal(t, 1.0, byIdentity[0].Series[0].Records[0].Value)

	// The same unparsed row is still retained under quantity grouping.
	byQuantity := BuildGroups(records, models.GroupByQuantity, nil, nil)
	require.Len(t, byQuantity, 1)
	assert.Len(t, byQuantity[0].Series, 2)
}

func TestGroupByIdentitySelectionYieldsEmptyPanel(t *testing.T) {
	records := []models.Measurement{
		record("NH001-雨量计-在线", "temperature", 1),
	}
	groups := BuildGroups(records, models.GroupByIdentity, []string{"NH001", "NH009"}, nil)

	require.Len(t, groups, 2)
	assert.Equal(t, "NH001 数据总览", groups[0].Title)
	require.Len(t, groups[0].Series, 1)
	assert.Equal(t, "NH009 数据总览", groups[1].Title)
	assert.Empty(t, groups[1].Series)
}

func TestGroupByIdentityFiltersVariableTypes(t *testing.T) {
	records := []models.Measurement{
		record("NH001-雨量计-在线", "temperature", 1),
		record("NH001-雨量计-在线", "humidity", 2),
	}
	groups := BuildGroups(records, models.GroupByIdentity, nil, []string{"humidity"})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Series, 1)
	assert.Equal(t, "humidity", groups[0].Series[0].Name)
}

func TestGroupSeriesNameCarriesUnit(t *testing.T) {
	m := record("NH001-雨量计-在线", "temperature", 1)
	m.Unit = "℃"
	groups := BuildGroups([]models.Measurement{m}, models.GroupByIdentity, nil, nil)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Series, 1)
	assert.Equal(t, "temperature (℃)", groups[0].Series[0].Name)
}

func TestBuildGroupsUnknownMode(t *testing.T) {
	assert.Nil(t, BuildGroups(nil, models.GroupMode("bogus"), nil, nil))
}
