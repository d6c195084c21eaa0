package pipeline

import (
	"fmt"

	"hydroview/internal/models"
)

// Series is one named line inside a group: the records of a single
// series key, in time order.
type Series struct {
	Name    string
	Key     models.SeriesKey
	Records []models.Measurement
}

// Group is one chart panel's worth of series.
type Group struct {
	Title  string
	Series []Series
}

// PlotGroup reduces the group to its derived identity form.
func (g Group) PlotGroup() models.PlotGroup {
	keys := make([]models.SeriesKey, len(g.Series))
	for i, s := range g.Series {
		keys[i] = s.Key
	}
	return models.PlotGroup{Title: g.Title, Keys: keys}
}

func identityTitle(key string) string { return fmt.Sprintf("%s 数据总览", key) }
func quantityTitle(key string) string { return fmt.Sprintf("%s 对比分析", key) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// selected treats an empty selection as "everything".
func selected(set []string, v string) bool {
	return len(set) == 0 || contains(set, v)
}

// BuildGroups partitions normalized records into named plot groups.
// The two modes are mutually exclusive; an unknown mode yields no
// groups. Groups that end up with zero records are legal and render as
// empty panels.
func BuildGroups(records []models.Measurement, mode models.GroupMode, sensorIDs, variableTypes []string) []Group {
	switch mode {
	case models.GroupByIdentity:
		return groupByIdentity(records, sensorIDs, variableTypes)
	case models.GroupByQuantity:
		return groupByQuantity(records, sensorIDs, variableTypes)
	default:
		return nil
	}
}

// groupByIdentity yields one group per structured sensor id. Records
// whose raw label fails decomposition have no usable identity and are
// excluded here.
func groupByIdentity(records []models.Measurement, sensorIDs, variableTypes []string) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)

	// Explicitly selected sensors get a panel even with zero records.
	for _, id := range sensorIDs {
		index[id] = len(groups)
		groups = append(groups, Group{Title: identityTitle(id)})
	}

	seriesIndex := make(map[string]map[models.SeriesKey]int)
	for _, r := range records {
		label, ok := ParseDeviceLabel(r.SensorID)
		if !ok {
			continue
		}
		if !selected(sensorIDs, label.ID) || !selected(variableTypes, r.VariableType) {
			continue
		}
		gi, ok := index[label.ID]
		if !ok {
			gi = len(groups)
			index[label.ID] = gi
			groups = append(groups, Group{Title: identityTitle(label.ID)})
		}
		if seriesIndex[label.ID] == nil {
			seriesIndex[label.ID] = make(map[models.SeriesKey]int)
		}
		key := r.Key()
		si, ok := seriesIndex[label.ID][key]
		if !ok {
			si = len(groups[gi].Series)
			seriesIndex[label.ID][key] = si
			groups[gi].Series = append(groups[gi].Series, Series{
				Name: seriesName(r.VariableType, r.Unit),
				Key:  key,
			})
		}
		groups[gi].Series[si].Records = append(groups[gi].Series[si].Records, r)
	}
	return groups
}

// groupByQuantity yields one group per variable type. Raw labels are
// kept as-is here, so rows that fail label decomposition still appear
// as long as their quantity is derivable.
func groupByQuantity(records []models.Measurement, sensorIDs, variableTypes []string) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)

	for _, vt := range variableTypes {
		index[vt] = len(groups)
		groups = append(groups, Group{Title: quantityTitle(vt)})
	}

	seriesIndex := make(map[string]map[models.SeriesKey]int)
	for _, r := range records {
		if !selected(variableTypes, r.VariableType) {
			continue
		}
		if len(sensorIDs) > 0 && !quantitySensorSelected(r.SensorID, sensorIDs) {
			continue
		}
		gi, ok := index[r.VariableType]
		if !ok {
			gi = len(groups)
			index[r.VariableType] = gi
			groups = append(groups, Group{Title: quantityTitle(r.VariableType)})
		}
		if seriesIndex[r.VariableType] == nil {
			seriesIndex[r.VariableType] = make(map[models.SeriesKey]int)
		}
		key := r.Key()
		si, ok := seriesIndex[r.VariableType][key]
		if !ok {
			si = len(groups[gi].Series)
			seriesIndex[r.VariableType][key] = si
			groups[gi].Series = append(groups[gi].Series, Series{
				Name: r.SensorID,
				Key:  key,
			})
		}
		groups[gi].Series[si].Records = append(groups[gi].Series[si].Records, r)
	}
	return groups
}

// quantitySensorSelected matches a raw label against a sensor selection
// by structured id when the label parses, by the raw string otherwise.
func quantitySensorSelected(rawID string, sensorIDs []string) bool {
	if label, ok := ParseDeviceLabel(rawID); ok {
		return contains(sensorIDs, label.ID)
	}
	return contains(sensorIDs, rawID)
}

func seriesName(variableType, unit string) string {
	if unit == "" {
		return variableType
	}
	return fmt.Sprintf("%s (%s)", variableType, unit)
}
