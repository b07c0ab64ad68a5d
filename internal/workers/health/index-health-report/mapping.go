// internal/workers/health/index-health-report/mapping.go
package indexhealthreport

// DefaultIndex holds one document per stored report.
const DefaultIndex = "health-scores"

// IndexMapping is applied when the index does not exist yet.
const IndexMapping = `{
  "settings": {"number_of_shards": 1},
  "mappings": {
    "properties": {
      "reportId":             {"type": "keyword"},
      "userId":               {"type": "keyword"},
      "score":                {"type": "integer"},
      "band":                 {"type": "keyword"},
      "planningType":         {"type": "keyword"},
      "engineVersion":        {"type": "keyword"},
      "degraded":             {"type": "boolean"},
      "calculatedAt":         {"type": "date"},
      "factors":              {"type": "object"},
      "zeroFactors":          {"type": "keyword"},
      "ageGroup":             {"type": "keyword"},
      "percentile":           {"type": "integer"},
      "comparison":           {"type": "keyword"},
      "completeness":         {"type": "integer"},
      "criticalMissing":      {"type": "keyword"},
      "suggestionCategories": {"type": "keyword"}
    }
  }
}`
