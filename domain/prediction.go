package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PredictionResult is the terminal output of the pricing pipeline,
// returned to the checkout widget as-is.
type PredictionResult struct {
	CustomerSegment       string  `json:"customer_segment"`
	OriginalPrice         float64 `json:"original_price"`
	OptimizedPrice        float64 `json:"optimized_price"`
	ConversionProbability float64 `json:"predicted_conversion_probability"`
	Notes                 string  `json:"notes"`
}

// PredictionLog is the best-effort audit record of a served prediction.
// UserID is 0 for guest requests.
type PredictionLog struct {
	ID                    uint64            `gorm:"primaryKey" json:"id"`
	UserID                uint              `gorm:"column:user_id" json:"user_id"`
	ClusterID             int               `gorm:"column:cluster_id;not null" json:"cluster_id"`
	CustomerSegment       string            `gorm:"column:customer_segment;not null" json:"customer_segment"`
	OriginalPrice         float64           `gorm:"column:original_price;type:numeric" json:"original_price"`
	OptimizedPrice        float64           `gorm:"column:optimized_price;type:numeric" json:"optimized_price"`
	ConversionProbability float64           `gorm:"column:conversion_probability;type:numeric" json:"conversion_probability"`
	Context               datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
	CreatedAt             time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PredictionLog) TableName() string {
	return "prediction_logs"
}
