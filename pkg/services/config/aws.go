package config

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const (
	DefaultRegion = "us-east-1" // Default region if the profile does not specify one
)

// LoadAWSConfig builds an SDK config for one credential profile. A
// profile with explicit keys gets a static provider; otherwise the
// profile name is resolved through the SDK's shared-config chain.
func LoadAWSConfig(ctx context.Context, profile Profile) (*awssdk.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithDefaultRegion(DefaultRegion),
	}
	if profile.Region != "" {
		opts = append(opts, awsconfig.WithRegion(profile.Region))
	}
	if profile.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(profile.AccessKeyID, profile.SecretAccessKey, ""),
		))
	} else if profile.Name != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile.Name))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	// Test the credentials
	_, err = awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("invalid AWS credentials for profile %s: %w", profile.Name, err)
	}

	return &awsCfg, nil
}
