package models

// ComparisonEntity holds the latest-period values for one compared entity.
type ComparisonEntity struct {
	ID      string               `json:"id"`
	Name    string               `json:"name"`
	Metrics map[MetricID]float64 `json:"metrics"`
}

// ComparisonMetric summarises one metric across all compared entities.
type ComparisonMetric struct {
	Metric  MetricID      `json:"metric"`
	Name    LocalizedText `json:"name"`
	Best    float64       `json:"best"`
	BestID  string        `json:"best_id"`
	Worst   float64       `json:"worst"`
	WorstID string        `json:"worst_id"`
	Average float64       `json:"average"`
	StdDev  float64       `json:"std_dev"`
}

// ComparisonInsight flags an entity materially above or below the peer mean.
type ComparisonInsight struct {
	EntityID string        `json:"entity_id"`
	Metric   MetricID      `json:"metric"`
	Leader   bool          `json:"leader"`
	Laggard  bool          `json:"laggard"`
	Value    float64       `json:"value"`
	Mean     float64       `json:"mean"`
	Message  LocalizedText `json:"message"`
}

// EntityRanking is the overall position of one entity.
type EntityRanking struct {
	EntityID     string           `json:"entity_id"`
	Name         string           `json:"name"`
	OverallScore float64          `json:"overall_score"`
	Rank         int              `json:"rank"`
	MetricRanks  map[MetricID]int `json:"metric_ranks"`
}

// ComparisonAnalysis is the result of comparing peers at one level.
type ComparisonAnalysis struct {
	EntityType HierarchyLevel      `json:"entity_type"`
	Entities   []ComparisonEntity  `json:"entities"`
	Metrics    []ComparisonMetric  `json:"metrics"`
	Insights   []ComparisonInsight `json:"insights"`
	Rankings   []EntityRanking     `json:"rankings"`
}
