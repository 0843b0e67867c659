package dto

import "github.com/geonotify/notify-backend/internal/models"

// FeatureQueryRequest is the JSON body POSTed to the feature-service proxy
// for the query operation.
type FeatureQueryRequest struct {
	Endpoint                   string         `json:"endpoint"`
	Where                      string         `json:"where,omitempty"`
	OutFields                  []string       `json:"outFields,omitempty"`
	OutStatistics              []OutStatistic `json:"outStatistics,omitempty"`
	GroupByFieldsForStatistics string         `json:"groupByFieldsForStatistics,omitempty"`
	ReturnCountOnly            bool           `json:"returnCountOnly,omitempty"`
	ResultRecordCount          int            `json:"resultRecordCount,omitempty"`
	Username                   string         `json:"username,omitempty"`
	Password                   string         `json:"password,omitempty"`
}

// OutStatistic asks the remote service to compute one aggregate.
type OutStatistic struct {
	StatisticType         string `json:"statisticType"` // sum|avg|min|max|count
	OnStatisticField      string `json:"onStatisticField"`
	OutStatisticFieldName string `json:"outStatisticFieldName"`
}

// FeatureQueryResponse is the proxy's reply to a query. Error may be set
// even on an HTTP 200; callers must check both.
type FeatureQueryResponse struct {
	Features []Feature     `json:"features"`
	Count    *int          `json:"count,omitempty"`
	Error    *ServiceError `json:"error,omitempty"`
}

// Feature is one remote record.
type Feature struct {
	Attributes map[string]any `json:"attributes"`
}

// FeatureMetadataRequest asks the proxy for layer metadata.
type FeatureMetadataRequest struct {
	Endpoint string `json:"endpoint"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// FeatureMetadataResponse carries the layer's field descriptions.
type FeatureMetadataResponse struct {
	Fields []models.FieldMetadata `json:"fields"`
	Error  *ServiceError          `json:"error,omitempty"`
}

// ServiceError is the error object the proxy may embed in any payload.
type ServiceError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}
