package analyzer

import generativeAI "github.com/awesomesos/trip-safety-api/internal/api/generative_ai"

// Activity/location types, difficulty and experience level are deliberately
// plain strings: the model must never be rejected for a novel-but-valid value.
var analysisSchema = generativeAI.Schema{
	Name: "trip_analysis",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"trip_details": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"location_name":     map[string]interface{}{"type": "string"},
					"start_date":        map[string]interface{}{"type": "string", "description": "ISO date, only if stated"},
					"end_date":          map[string]interface{}{"type": "string", "description": "ISO date, only if stated"},
					"duration_days":     map[string]interface{}{"type": "integer"},
					"emergency_contact": map[string]interface{}{"type": "string", "description": "Only if stated"},
					"activities": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"type":       map[string]interface{}{"type": "string"},
								"name":       map[string]interface{}{"type": "string"},
								"difficulty": map[string]interface{}{"type": "string"},
							},
							"required": []string{"type", "name"},
						},
					},
					"group_size":       map[string]interface{}{"type": "integer"},
					"experience_level": map[string]interface{}{"type": "string"},
					"locations": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"name":    map[string]interface{}{"type": "string"},
								"type":    map[string]interface{}{"type": "string"},
								"address": map[string]interface{}{"type": "string"},
								"city":    map[string]interface{}{"type": "string"},
								"state":   map[string]interface{}{"type": "string"},
								"coordinates": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"lat": map[string]interface{}{"type": "number"},
										"lng": map[string]interface{}{"type": "number"},
									},
								},
							},
							"required": []string{"name", "type"},
						},
					},
				},
				"required": []string{"location_name"},
			},
			"safety_info": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"emergency_numbers": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"police":      map[string]interface{}{"type": "string"},
							"medical":     map[string]interface{}{"type": "string"},
							"park_ranger": map[string]interface{}{"type": "string"},
						},
						"required": []string{"police", "medical"},
					},
					"weather_summary": map[string]interface{}{"type": "string"},
					"key_risks": map[string]interface{}{
						"type": "array", "items": map[string]interface{}{"type": "string"}, "maxItems": 5,
					},
					"safety_tips": map[string]interface{}{
						"type": "array", "items": map[string]interface{}{"type": "string"}, "maxItems": 8,
					},
					"packing_essentials": map[string]interface{}{
						"type": "array", "items": map[string]interface{}{"type": "string"}, "maxItems": 12,
					},
					"fun_safety_score": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"score":       map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 10},
							"description": map[string]interface{}{"type": "string"},
						},
						"required": []string{"score", "description"},
					},
					"check_in_schedule": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"time":    map[string]interface{}{"type": "string"},
								"message": map[string]interface{}{"type": "string"},
							},
							"required": []string{"time", "message"},
						},
						"maxItems": 4,
					},
					"local_resources": map[string]interface{}{
						"type": "array", "items": map[string]interface{}{"type": "string"}, "maxItems": 5,
					},
				},
				"required": []string{"emergency_numbers", "weather_summary", "key_risks", "safety_tips", "packing_essentials", "fun_safety_score", "check_in_schedule", "local_resources"},
			},
		},
		"required": []string{"trip_details", "safety_info"},
	},
}
