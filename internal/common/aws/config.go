// internal/common/aws/config.go
//
// Package aws wires the AWS SDK clients used for plan delivery. The config
// is loaded once per handler and shared between the SES and SNS clients.
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadConfig resolves the default credential chain for the given region.
func LoadConfig(ctx context.Context, region string) (awssdk.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}
