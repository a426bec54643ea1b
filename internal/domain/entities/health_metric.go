package entities

// NormalRange is the inclusive healthy interval of a metric
type NormalRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HealthMetricDefinition describes a trackable metric
type HealthMetricDefinition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Unit        string      `json:"unit"`
	NormalRange NormalRange `json:"normal_range"`
}

// MetricStatus classifies a reading against its normal range
type MetricStatus string

const (
	MetricStatusNormal MetricStatus = "Normal"
	MetricStatusLow    MetricStatus = "Low"
	MetricStatusHigh   MetricStatus = "High"
)

// MetricSummary is the dashboard view of the latest reading of a metric
type MetricSummary struct {
	Metric         HealthMetricDefinition `json:"metric"`
	Latest         HealthMetricReading    `json:"latest"`
	Status         MetricStatus           `json:"status"`
	Recommendation string                 `json:"recommendation"`
	Readings       int                    `json:"readings"`
}

var healthMetricCatalog = []HealthMetricDefinition{
	{ID: "blood-pressure", Name: "Blood Pressure", Unit: "mmHg", NormalRange: NormalRange{Min: 90, Max: 120}},
	{ID: "heart-rate", Name: "Heart Rate", Unit: "BPM", NormalRange: NormalRange{Min: 60, Max: 100}},
	{ID: "blood-glucose", Name: "Blood Glucose", Unit: "mg/dL", NormalRange: NormalRange{Min: 70, Max: 140}},
	{ID: "oxygen-saturation", Name: "Oxygen Saturation", Unit: "%", NormalRange: NormalRange{Min: 95, Max: 100}},
	{ID: "body-temperature", Name: "Body Temperature", Unit: "°F", NormalRange: NormalRange{Min: 97, Max: 99}},
	{ID: "bmi", Name: "BMI", Unit: "kg/m²", NormalRange: NormalRange{Min: 18.5, Max: 24.9}},
	{ID: "hemoglobin", Name: "Hemoglobin", Unit: "g/dL", NormalRange: NormalRange{Min: 12, Max: 16}},
	{ID: "cholesterol", Name: "Cholesterol", Unit: "mg/dL", NormalRange: NormalRange{Min: 125, Max: 200}},
	{ID: "creatinine", Name: "Creatinine", Unit: "mg/dL", NormalRange: NormalRange{Min: 0.7, Max: 1.3}},
	{ID: "urea", Name: "Urea", Unit: "mg/dL", NormalRange: NormalRange{Min: 7, Max: 20}},
	{ID: "liver-enzymes", Name: "Liver Enzymes", Unit: "U/L", NormalRange: NormalRange{Min: 7, Max: 56}},
	{ID: "thyroid", Name: "Thyroid (TSH)", Unit: "mIU/L", NormalRange: NormalRange{Min: 0.4, Max: 4.0}},
}

// HealthMetricCatalog returns every trackable metric in dashboard order.
func HealthMetricCatalog() []HealthMetricDefinition {
	out := make([]HealthMetricDefinition, len(healthMetricCatalog))
	copy(out, healthMetricCatalog)
	return out
}

// FindHealthMetric looks up a metric definition by id.
func FindHealthMetric(id string) (HealthMetricDefinition, bool) {
	for _, m := range healthMetricCatalog {
		if m.ID == id {
			return m, true
		}
	}
	return HealthMetricDefinition{}, false
}

// Classify places value relative to the metric's normal range.
func (d HealthMetricDefinition) Classify(value float64) MetricStatus {
	switch {
	case value < d.NormalRange.Min:
		return MetricStatusLow
	case value > d.NormalRange.Max:
		return MetricStatusHigh
	default:
		return MetricStatusNormal
	}
}

// Recommendation returns the dashboard advice for a status.
func (s MetricStatus) Recommendation() string {
	switch s {
	case MetricStatusLow:
		return "Consider increasing your levels"
	case MetricStatusHigh:
		return "Consider reducing your levels"
	default:
		return "Continue maintaining current levels"
	}
}
