package pipeline

import (
	"sort"
	"time"

	"hydroview/internal/models"
)

// downsampleThreshold is the row count above which aggregation kicks in.
// At or below it the input passes through untouched, order and values
// intact.
const downsampleThreshold = 5000

// BucketWidth picks the aggregation bucket from the total query span,
// not from the extent of the data. A zero return means no aggregation.
func BucketWidth(span time.Duration) time.Duration {
	day := 24 * time.Hour
	switch {
	case span > 365*day:
		return day
	case span > 90*day:
		return 6 * time.Hour
	case span > 30*day:
		return time.Hour
	case span > 7*day:
		return 30 * time.Minute
	default:
		return 0
	}
}

// Downsample bounds the number of plotted points for large queries by
// time-bucketed averaging. Each distinct series key is aggregated
// independently; buckets with no source rows are omitted so sparse
// series stay sparse. The reduction is deterministic and idempotent:
// re-aggregating its own output at the same width changes nothing
// beyond floating-point rounding.
func Downsample(records []models.Measurement, start, end time.Time) []models.Measurement {
	if len(records) <= downsampleThreshold {
		return records
	}
	width := BucketWidth(end.Sub(start))
	if width == 0 {
		return records
	}

	type bucketAcc struct {
		sum   float64
		count int
	}
	buckets := make(map[models.SeriesKey]map[time.Time]*bucketAcc)
	keyOrder := make([]models.SeriesKey, 0)

	for _, r := range records {
		key := r.Key()
		byTime, ok := buckets[key]
		if !ok {
			byTime = make(map[time.Time]*bucketAcc)
			buckets[key] = byTime
			keyOrder = append(keyOrder, key)
		}
		bucket := r.Timestamp.Truncate(width)
		acc, ok := byTime[bucket]
		if !ok {
			acc = &bucketAcc{}
			byTime[bucket] = acc
		}
		acc.sum += r.Value
		acc.count++
	}

	out := make([]models.Measurement, 0, len(records)/2)
	for _, key := range keyOrder {
		byTime := buckets[key]
		times := make([]time.Time, 0, len(byTime))
		for bucket := range byTime {
			times = append(times, bucket)
		}
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		for _, bucket := range times {
			acc := byTime[bucket]
			out = append(out, models.Measurement{
				Timestamp:    bucket,
				SensorID:     key.SensorID,
				VariableType: key.VariableType,
				Value:        acc.sum / float64(acc.count),
				Unit:         key.Unit,
			})
		}
	}
	return out
}

// DownsampleRainfall applies the same span-driven bucketing to the
// single-channel rainfall series.
func DownsampleRainfall(samples []models.RainfallSample, start, end time.Time) []models.RainfallSample {
	if len(samples) <= downsampleThreshold {
		return samples
	}
	width := BucketWidth(end.Sub(start))
	if width == 0 {
		return samples
	}

	type bucketAcc struct {
		sum   float64
		count int
	}
	byTime := make(map[time.Time]*bucketAcc)
	for _, s := range samples {
		bucket := s.Timestamp.Truncate(width)
		acc, ok := byTime[bucket]
		if !ok {
			acc = &bucketAcc{}
			byTime[bucket] = acc
		}
		acc.sum += s.Value
		acc.count++
	}

	times := make([]time.Time, 0, len(byTime))
	for bucket := range byTime {
		times = append(times, bucket)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	out := make([]models.RainfallSample, 0, len(times))
	for _, bucket := range times {
		acc := byTime[bucket]
		out = append(out, models.RainfallSample{Timestamp: bucket, Value: acc.sum / float64(acc.count)})
	}
	return out
}

// SortMeasurements orders records by timestamp, preserving input order
// for equal timestamps. Bucketing callers sort explicitly instead of
// trusting store order.
func SortMeasurements(records []models.Measurement) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}

// SortRainfall orders samples by timestamp, preserving input order for
// equal timestamps.
func SortRainfall(samples []models.RainfallSample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
}
