package server

import (
	"skillmatch/internal/matching"
	"skillmatch/internal/search"
)

// Wire request shapes. They mirror the service request types but keep the
// weight override optional at the JSON layer.
type searchRequest struct {
	Mode       string          `json:"mode"`
	Skills     []string        `json:"skills"`
	Experience string          `json:"experience,omitempty"`
	Limit      int             `json:"limit,omitempty"`
	Weights    *weightOverride `json:"weights,omitempty"`
}

type weightOverride struct {
	Vector   float64 `json:"vector"`
	Overlap  float64 `json:"overlap"`
	Coverage float64 `json:"coverage"`
	Extra    float64 `json:"extra"`
}

func (r searchRequest) toServiceRequest() search.Request {
	req := search.Request{
		Mode:       r.Mode,
		Skills:     r.Skills,
		Experience: r.Experience,
		Limit:      r.Limit,
	}
	if r.Weights != nil {
		req.Weights = &matching.Weights{
			Vector:   r.Weights.Vector,
			Overlap:  r.Weights.Overlap,
			Coverage: r.Weights.Coverage,
			Extra:    r.Weights.Extra,
		}
	}
	return req
}

type statisticsRequest struct {
	Mode string `json:"mode"`
	TopN int    `json:"topN,omitempty"`
}

func (r statisticsRequest) toServiceRequest() search.StatisticsRequest {
	return search.StatisticsRequest{Mode: r.Mode, TopN: r.TopN}
}
