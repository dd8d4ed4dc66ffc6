package notify

import (
	"math"
	"time"

	"date-journal-backend/internal/models"
)

// Metric is an aggregate counter a milestone is measured against
type Metric string

const (
	MetricDaysTogether  Metric = "days_together"
	MetricTotalDates    Metric = "total_dates"
	MetricTotalPhotos   Metric = "total_photos"
	MetricTotalComments Metric = "total_comments"
	MetricFiveStarDates Metric = "five_star_dates"
)

// MilestoneDef is one row of the milestone table
type MilestoneDef struct {
	Type   string
	Title  string
	Icon   string
	Metric Metric
	Value  int
}

// Milestones is the fixed threshold table
var Milestones = []MilestoneDef{
	{Type: "100days", Title: "100 Days Together!", Icon: "💯", Metric: MetricDaysTogether, Value: 100},
	{Type: "6months", Title: "6 Months Anniversary!", Icon: "6️⃣", Metric: MetricDaysTogether, Value: 180},
	{Type: "1year", Title: "One Year Together!", Icon: "🕺", Metric: MetricDaysTogether, Value: 365},
	{Type: "10dates", Title: "10th Date!", Icon: "🔟", Metric: MetricTotalDates, Value: 10},
	{Type: "25dates", Title: "25 Amazing Dates!", Icon: "🥰", Metric: MetricTotalDates, Value: 25},
	{Type: "50dates", Title: "50 Dates Together!", Icon: "😘", Metric: MetricTotalDates, Value: 50},
	{Type: "100dates", Title: "100 Dates!!!", Icon: "💯", Metric: MetricTotalDates, Value: 100},
	{Type: "50photos", Title: "50 Photos!", Icon: "🤳", Metric: MetricTotalPhotos, Value: 50},
	{Type: "100photos", Title: "100 Beautiful Photos!", Icon: "🎞️", Metric: MetricTotalPhotos, Value: 100},
	{Type: "100comments", Title: "100 Sweet Comments!", Icon: "💬", Metric: MetricTotalComments, Value: 100},
	{Type: "first5star", Title: "First 5-Star Date!", Icon: "👌", Metric: MetricFiveStarDates, Value: 1},
}

// Metrics are the aggregates derived from the whole date collection
type Metrics struct {
	DaysTogether    int     `json:"days_together"`
	TotalDates      int     `json:"total_dates"`
	FavoriteDates   int     `json:"favorite_dates"`
	TotalPhotos     int     `json:"total_photos"`
	TotalComments   int     `json:"total_comments"`
	TotalVoiceNotes int     `json:"total_voice_notes"`
	FiveStarDates   int     `json:"five_star_dates"`
	AvgRating       float64 `json:"avg_rating"`
}

// Value returns the counter for metric
func (m Metrics) Value(metric Metric) int {
	switch metric {
	case MetricDaysTogether:
		return m.DaysTogether
	case MetricTotalDates:
		return m.TotalDates
	case MetricTotalPhotos:
		return m.TotalPhotos
	case MetricTotalComments:
		return m.TotalComments
	case MetricFiveStarDates:
		return m.FiveStarDates
	}
	return 0
}

// ComputeMetrics aggregates dates. The average rating counts every date,
// unrated ones included, and is rounded to one decimal.
func ComputeMetrics(dates []*models.DateEvent, anniversary, now time.Time) Metrics {
	m := Metrics{
		TotalDates:   len(dates),
		DaysTogether: DaysTogether(anniversary, now),
	}
	ratingSum := 0
	for _, d := range dates {
		if d.Favorited {
			m.FavoriteDates++
		}
		if d.Rating == models.MaxRating {
			m.FiveStarDates++
		}
		m.TotalPhotos += len(d.Photos)
		m.TotalComments += len(d.Comments)
		m.TotalVoiceNotes += len(d.VoiceNotes)
		ratingSum += d.Rating
	}
	if len(dates) > 0 {
		m.AvgRating = math.Round(float64(ratingSum)/float64(len(dates))*10) / 10
	}
	return m
}

// DaysTogether counts whole days elapsed since the anniversary
func DaysTogether(anniversary, now time.Time) int {
	return int(math.Floor(now.Sub(anniversary).Hours() / 24))
}

// EvaluateMilestones returns every milestone whose metric exactly equals its
// threshold. A metric that jumps over a threshold never reports it.
func EvaluateMilestones(m Metrics) []MilestoneDef {
	var reached []MilestoneDef
	for _, def := range Milestones {
		if m.Value(def.Metric) == def.Value {
			reached = append(reached, def)
		}
	}
	return reached
}
