package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/common/model"
)

func (p *PrometheusClient) queryVector(query string) (model.Vector, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	result, _, err := p.v1api.Query(ctx, query, time.Now())
	if err != nil {
		return nil, err
	}

	if result.Type() != model.ValVector {
		return nil, fmt.Errorf("expected vector type result but got %s", result.Type())
	}

	return result.(model.Vector), nil
}

// float32SumQuery sums the values of every sample in the result vector.
func (p *PrometheusClient) float32SumQuery(query string) (float32, error) {
	vector, err := p.queryVector(query)
	if err != nil {
		return 0.0, err
	}

	var sum float32
	for _, sample := range vector {
		sum += float32(sample.Value)
	}
	return sum, nil
}
