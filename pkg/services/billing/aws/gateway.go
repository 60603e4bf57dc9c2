package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/de-tools/cloud-atlas/pkg/models/domain"
	"github.com/de-tools/cloud-atlas/pkg/services/billing"
)

const dateLayout = "2006-01-02"

type gateway struct {
	ce  *costexplorer.Client
	sts *sts.Client
}

func NewGateway(cfg awssdk.Config) billing.Gateway {
	return &gateway{
		ce:  costexplorer.NewFromConfig(cfg),
		sts: sts.NewFromConfig(cfg),
	}
}

func (g *gateway) QueryCost(ctx context.Context, q domain.CostQuery) ([]domain.CostBucket, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: awssdk.String(q.Start.Format(dateLayout)),
			End:   awssdk.String(q.End.Format(dateLayout)),
		},
		Granularity: cetypes.GranularityMonthly,
		Metrics:     q.Metrics,
	}
	if q.GroupByLinkedAccount {
		input.GroupBy = []cetypes.GroupDefinition{
			{
				Type: cetypes.GroupDefinitionTypeDimension,
				Key:  awssdk.String("LINKED_ACCOUNT"),
			},
		}
	}

	result, err := g.ce.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get cost and usage: %w", err)
	}

	buckets := make([]domain.CostBucket, 0, len(result.ResultsByTime))
	for _, resultByTime := range result.ResultsByTime {
		bucket := domain.CostBucket{
			Totals: mapMetricValues(resultByTime.Total),
		}

		if resultByTime.TimePeriod != nil {
			bucket.Start, err = time.Parse(dateLayout, awssdk.ToString(resultByTime.TimePeriod.Start))
			if err != nil {
				return nil, fmt.Errorf("failed to parse bucket start time: %w", err)
			}
			bucket.End, err = time.Parse(dateLayout, awssdk.ToString(resultByTime.TimePeriod.End))
			if err != nil {
				return nil, fmt.Errorf("failed to parse bucket end time: %w", err)
			}
		}

		for _, group := range resultByTime.Groups {
			bucket.Groups = append(bucket.Groups, domain.CostGroup{
				Keys:    group.Keys,
				Metrics: mapMetricValues(group.Metrics),
			})
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

func (g *gateway) CallerIdentity(ctx context.Context) (string, error) {
	output, err := g.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return awssdk.ToString(output.Account), nil
}

func mapMetricValues(values map[string]cetypes.MetricValue) map[string]domain.CostAmount {
	mapped := make(map[string]domain.CostAmount, len(values))
	for name, value := range values {
		mapped[name] = domain.CostAmount{
			Amount: awssdk.ToString(value.Amount),
			Unit:   awssdk.ToString(value.Unit),
		}
	}
	return mapped
}
