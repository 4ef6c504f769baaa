package ledger

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestParsePeriodMonthly(t *testing.T) {
	p, err := ParsePeriod("monthly")
	assert.NoError(t, err)

	start, end := p.BucketOf(td2("2026-03-17"))
	assert.Equal(t, td2("2026-03-01"), start)
	assert.Equal(t, td2("2026-04-01"), end)
}

func TestParsePeriodWeekly(t *testing.T) {
	p, err := ParsePeriod("weekly")
	assert.NoError(t, err)

	// 2026-03-17 is a Tuesday; the ISO week starts Monday 2026-03-16.
	start, end := p.BucketOf(td2("2026-03-17"))
	assert.Equal(t, td2("2026-03-16"), start)
	assert.Equal(t, td2("2026-03-23"), end)
}

func TestParsePeriodQuarterly(t *testing.T) {
	p, err := ParsePeriod("quarterly")
	assert.NoError(t, err)

	start, end := p.BucketOf(td2("2026-05-01"))
	assert.Equal(t, td2("2026-04-01"), start)
	assert.Equal(t, td2("2026-07-01"), end)
}

func TestParsePeriodYearly(t *testing.T) {
	p, err := ParsePeriod("yearly")
	assert.NoError(t, err)

	start, end := p.BucketOf(td2("2026-11-05"))
	assert.Equal(t, td2("2026-01-01"), start)
	assert.Equal(t, td2("2027-01-01"), end)
}

func TestParsePeriodEveryNWeeksFromAnchor(t *testing.T) {
	p, err := ParsePeriod("every 2 weeks from 2026-01-05")
	assert.NoError(t, err)

	start, end := p.BucketOf(td2("2026-01-20"))
	assert.Equal(t, td2("2026-01-19"), start)
	assert.Equal(t, td2("2026-02-02"), end)
}

func TestParsePeriodEveryNMonths(t *testing.T) {
	p, err := ParsePeriod("every 2 months from 2026-01-01")
	assert.NoError(t, err)

	start, _ := p.BucketOf(td2("2026-04-15"))
	assert.Equal(t, td2("2026-03-01"), start)
}

func TestParsePeriodRejectsGarbage(t *testing.T) {
	_, err := ParsePeriod("fortnightly")
	assert.Error(t, err)

	_, err = ParsePeriod("every weeks")
	assert.Error(t, err)

	_, err = ParsePeriod("every 2 lightyears")
	assert.Error(t, err)
}

func TestParsePeriodBucketsSpansRange(t *testing.T) {
	p, err := ParsePeriod("monthly")
	assert.NoError(t, err)

	buckets := p.Buckets(td2("2026-01-15"), td2("2026-03-10"))
	assert.Equal(t, 3, len(buckets))
	assert.Equal(t, td2("2026-01-01"), buckets[0].Start)
	assert.Equal(t, td2("2026-02-01"), buckets[0].End)
	assert.Equal(t, td2("2026-03-01"), buckets[2].Start)
	assert.Equal(t, td2("2026-04-01"), buckets[2].End)
}

func td2(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
